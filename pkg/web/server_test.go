package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/config"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/pipeline"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/playback"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/tts"
)

// newTestServer wires a worker and a server around one shared config
// store, the same way main does.
func newTestServer(t *testing.T) (*Server, *playback.MockOpener, string) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.json")
	store := config.NewStore(config.Default(), cfgPath)

	opener := &playback.MockOpener{}
	engine := playback.NewEngineWithOpener(opener.Open, nil)
	worker := pipeline.NewWorker(tts.NewMock(), engine, store)
	worker.Start()
	t.Cleanup(worker.Stop)

	s := NewServer("0", worker, nil, store)
	return s, opener, cfgPath
}

func doJSON(t *testing.T, s *Server, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func TestStatusEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/api/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.State != "idle" {
		t.Fatalf("expected idle, got %q", got.State)
	}
}

func TestDevicesEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.listDevices = func() ([]playback.Device, error) {
		return []playback.Device{
			{ID: 0, Name: "Speakers", IsDefault: true},
			{ID: 1, Name: "Virtual Mic"},
		}, nil
	}

	resp := doJSON(t, s, http.MethodGet, "/api/devices", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var devices []playback.Device
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		t.Fatal(err)
	}
	if len(devices) != 2 || devices[1].Name != "Virtual Mic" {
		t.Fatalf("unexpected devices: %+v", devices)
	}
}

func TestVoicesEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/api/voices", "")
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), tts.VoiceAlloy) {
		t.Fatalf("voices missing alloy: %s", body)
	}
}

func TestSpeakEndpoint(t *testing.T) {
	t.Run("valid text is accepted and played", func(t *testing.T) {
		s, opener, _ := newTestServer(t)

		resp := doJSON(t, s, http.MethodPost, "/api/speak", `{"text": "hi there", "voice": "alloy"}`)
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("status %d", resp.StatusCode)
		}

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if len(opener.Opened()) > 0 {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		t.Fatal("accepted job never reached playback")
	})

	t.Run("malformed body", func(t *testing.T) {
		s, _, _ := newTestServer(t)
		resp := doJSON(t, s, http.MethodPost, "/api/speak", `{not json`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status %d", resp.StatusCode)
		}
	})
}

func TestRecordEndpointWithoutRecognizer(t *testing.T) {
	s, _, _ := newTestServer(t)
	resp := doJSON(t, s, http.MethodPost, "/api/record", `{"duration_seconds": 3}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestConfigEndpoints(t *testing.T) {
	t.Run("update persists", func(t *testing.T) {
		s, _, cfgPath := newTestServer(t)

		resp := doJSON(t, s, http.MethodPut, "/api/config", `{"voice": "nova", "headphone_device": 1}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}

		saved, err := config.Load(cfgPath)
		if err != nil {
			t.Fatal(err)
		}
		if saved.Voice != "nova" || saved.HeadphoneDevice == nil || *saved.HeadphoneDevice != 1 {
			t.Fatalf("config not persisted: %+v", saved)
		}
	})

	t.Run("unknown voice rejected", func(t *testing.T) {
		s, _, _ := newTestServer(t)
		resp := doJSON(t, s, http.MethodPut, "/api/config", `{"voice": "darth-vader"}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status %d", resp.StatusCode)
		}
	})

	t.Run("update is visible to the worker", func(t *testing.T) {
		s, opener, _ := newTestServer(t)

		resp := doJSON(t, s, http.MethodPut, "/api/config", `{"voice": "nova", "headphone_device": 1}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		resp = doJSON(t, s, http.MethodPost, "/api/speak", `{"text": "check one two"}`)
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("status %d", resp.StatusCode)
		}

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			for _, id := range opener.Opened() {
				if id == playback.DeviceID(1) {
					return
				}
			}
			time.Sleep(5 * time.Millisecond)
		}
		t.Fatalf("job never reached device 1, opened: %v", opener.Opened())
	})
}
