package grammar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCorrect(t *testing.T) {
	t.Run("applies first replacement per match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v2/check" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			if got := r.PostForm.Get("text"); got != "helo wrld" {
				t.Errorf("unexpected text %q", got)
			}
			// "helo" at 0, "wrld" at 5.
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"matches": [
				{"offset": 0, "length": 4, "replacements": [{"value": "hello"}, {"value": "halo"}]},
				{"offset": 5, "length": 4, "replacements": [{"value": "world"}]}
			]}`))
		}))
		defer srv.Close()

		c := New(WithBaseURL(srv.URL))
		got, err := c.Correct(context.Background(), "helo wrld")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "hello world" {
			t.Fatalf("expected %q, got %q", "hello world", got)
		}
	})

	t.Run("offsets are characters, not bytes", func(t *testing.T) {
		// "héllo wrld": the é is two bytes, so a byte-indexed fix for
		// "wrld" (character offset 6) would land one position early.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"matches": [
				{"offset": 6, "length": 4, "replacements": [{"value": "world"}]}
			]}`))
		}))
		defer srv.Close()

		c := New(WithBaseURL(srv.URL))
		got, err := c.Correct(context.Background(), "héllo wrld")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "héllo world" {
			t.Fatalf("expected %q, got %q", "héllo world", got)
		}
	})

	t.Run("match without replacements is skipped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"matches": [{"offset": 0, "length": 3, "replacements": []}]}`))
		}))
		defer srv.Close()

		c := New(WithBaseURL(srv.URL))
		got, err := c.Correct(context.Background(), "abc def")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "abc def" {
			t.Fatalf("text changed without replacements: %q", got)
		}
	})

	t.Run("server error degrades to original text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := New(WithBaseURL(srv.URL))
		got, err := c.Correct(context.Background(), "keep me")
		if err == nil {
			t.Fatal("expected an error")
		}
		if got != "keep me" {
			t.Fatalf("original text lost on failure: %q", got)
		}
	})

	t.Run("unreachable server degrades to original text", func(t *testing.T) {
		c := New(WithBaseURL("http://127.0.0.1:1"))
		got, err := c.Correct(context.Background(), "still here")
		if err == nil {
			t.Fatal("expected an error")
		}
		if got != "still here" {
			t.Fatalf("original text lost on failure: %q", got)
		}
	})

	t.Run("blank text skips the network entirely", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))
		defer srv.Close()

		c := New(WithBaseURL(srv.URL))
		if got, err := c.Correct(context.Background(), "   "); err != nil || got != "   " {
			t.Fatalf("blank text: got %q, %v", got, err)
		}
		if called {
			t.Fatal("blank text must not hit the server")
		}
	})
}

func TestApplyMatchesOutOfRange(t *testing.T) {
	out := applyMatches("short", []match{
		{Offset: 2, Length: 100, Replacements: []struct {
			Value string `json:"value"`
		}{{Value: "x"}}},
	})
	if out != "short" {
		t.Fatalf("out-of-range match must be ignored, got %q", out)
	}
}
