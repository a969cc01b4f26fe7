package tts

import "testing"

func TestMatchVoice(t *testing.T) {
	voices := []Voice{
		{ID: "gmw/en", Name: "english"},
		{ID: "gmw/en-US", Name: "english-america"},
		{ID: "roa/fr", Name: "french"},
		{ID: "alloy-like", Name: "Neutral"},
	}

	t.Run("exact id", func(t *testing.T) {
		v, ok := MatchVoice(voices, "roa/fr")
		if !ok || v.ID != "roa/fr" {
			t.Fatalf("expected roa/fr, got %+v ok=%v", v, ok)
		}
	})

	t.Run("case-insensitive substring on name", func(t *testing.T) {
		v, ok := MatchVoice(voices, "FRENCH")
		if !ok || v.ID != "roa/fr" {
			t.Fatalf("expected roa/fr, got %+v ok=%v", v, ok)
		}
	})

	t.Run("substring on id", func(t *testing.T) {
		v, ok := MatchVoice(voices, "alloy")
		if !ok || v.ID != "alloy-like" {
			t.Fatalf("expected alloy-like, got %+v ok=%v", v, ok)
		}
	})

	t.Run("first match wins", func(t *testing.T) {
		v, ok := MatchVoice(voices, "en")
		if !ok || v.ID != "gmw/en" {
			t.Fatalf("expected gmw/en, got %+v ok=%v", v, ok)
		}
	})

	t.Run("no match is not an error", func(t *testing.T) {
		if _, ok := MatchVoice(voices, "klingon"); ok {
			t.Fatal("expected no match")
		}
	})

	t.Run("blank request never matches", func(t *testing.T) {
		if _, ok := MatchVoice(voices, "  "); ok {
			t.Fatal("blank voice must not match")
		}
	})
}
