package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/audio"
)

// wavFixture renders a small valid WAV payload.
func wavFixture(t *testing.T, samples int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := audio.EncodeWAVInt16(f, make([]int16, samples), 24000, 1); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestOpenAISynthesize(t *testing.T) {
	t.Run("request shape and decoding", func(t *testing.T) {
		wavData := wavFixture(t, 240)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
				t.Errorf("bad auth header %q", got)
			}
			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			if payload["model"] != ModelTTS1 || payload["voice"] != VoiceNova {
				t.Errorf("unexpected payload %v", payload)
			}
			if payload["input"] != "hello" || payload["response_format"] != "wav" {
				t.Errorf("unexpected payload %v", payload)
			}
			w.Write(wavData)
		}))
		defer srv.Close()

		o, err := NewOpenAI(WithAPIKey("sk-test"), WithBaseURL(srv.URL))
		if err != nil {
			t.Fatal(err)
		}
		buf, err := o.Synthesize(context.Background(), "hello", VoiceNova)
		if err != nil {
			t.Fatalf("synthesize: %v", err)
		}
		if buf.Frames() != 240 || buf.SampleRate != 24000 {
			t.Fatalf("unexpected buffer: frames=%d rate=%d", buf.Frames(), buf.SampleRate)
		}
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		wavData := wavFixture(t, 24)
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if hits.Add(1) == 1 {
				http.Error(w, "upstream hiccup", http.StatusBadGateway)
				return
			}
			w.Write(wavData)
		}))
		defer srv.Close()

		o, err := NewOpenAI(
			WithAPIKey("sk-test"),
			WithBaseURL(srv.URL),
			WithRetry(2, time.Millisecond),
		)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := o.Synthesize(context.Background(), "hello", ""); err != nil {
			t.Fatalf("expected retry to succeed: %v", err)
		}
		if hits.Load() != 2 {
			t.Fatalf("expected 2 attempts, got %d", hits.Load())
		}
	})

	t.Run("api error envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": {"message": "unknown voice", "code": "invalid_voice"}}`))
		}))
		defer srv.Close()

		o, err := NewOpenAI(WithAPIKey("sk-test"), WithBaseURL(srv.URL))
		if err != nil {
			t.Fatal(err)
		}
		_, err = o.Synthesize(context.Background(), "hello", "bogus")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "invalid_voice" {
			t.Fatalf("unexpected APIError: %+v", apiErr)
		}
		if apiErr.IsRetryable() {
			t.Fatal("a 400 must not be retryable")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		if _, err := NewOpenAI(); !errors.Is(err, ErrNoAPIKey) {
			t.Fatalf("expected ErrNoAPIKey, got %v", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		o, err := NewOpenAI(WithAPIKey("sk-test"))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := o.Synthesize(context.Background(), "", VoiceAlloy); !errors.Is(err, ErrEmptyText) {
			t.Fatalf("expected ErrEmptyText, got %v", err)
		}
	})
}
