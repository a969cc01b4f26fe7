package hub

import (
	"testing"
	"time"
)

func TestHubStop(t *testing.T) {
	t.Run("run loop exits", func(t *testing.T) {
		h := New("test")
		finished := make(chan struct{})
		go func() {
			h.Run()
			close(finished)
		}()

		h.Broadcast([]byte(`{"state":"idle"}`))
		h.Stop()

		select {
		case <-finished:
		case <-time.After(time.Second):
			t.Fatal("Run did not return after Stop")
		}
		if h.ClientCount() != 0 {
			t.Fatalf("expected no clients, got %d", h.ClientCount())
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		h := New("test")
		go h.Run()
		h.Stop()
		h.Stop()
	})

	t.Run("client registered after stop is closed immediately", func(t *testing.T) {
		h := New("test")
		h.Stop()

		client := NewClient(h, nil)
		select {
		case _, ok := <-client.send:
			if ok {
				t.Fatal("expected closed send channel")
			}
		case <-time.After(time.Second):
			t.Fatal("send channel left open")
		}
	})
}
