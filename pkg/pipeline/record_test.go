package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/stt"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/tts"
)

type fakeRecorder struct {
	dir string
	err error
}

func (f *fakeRecorder) Record(_ context.Context, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, "rec.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

type fakeChecker struct {
	out string
	err error
}

func (f *fakeChecker) Correct(_ context.Context, text string) (string, error) {
	if f.err != nil {
		return text, f.err
	}
	return f.out, nil
}

func TestRecordAndSubmit(t *testing.T) {
	t.Run("transcript flows through copy-edit into a job", func(t *testing.T) {
		synth := tts.NewMock()
		player := &fakePlayer{}
		w := NewWorker(synth, player, testStore())
		w.Start()
		defer w.Stop()

		transcriber := &stt.MockTranscriber{
			TranscribeFunc: func(context.Context, string) (string, error) {
				return "helo world", nil
			},
		}
		d := NewDictation(w, &fakeRecorder{dir: t.TempDir()},
			transcriber, &fakeChecker{out: "hello world"})

		text, err := d.RecordAndSubmit(context.Background(), time.Second, tts.VoiceAlloy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "hello world" {
			t.Fatalf("expected corrected text, got %q", text)
		}

		waitFor(t, "job to play", func() bool { return player.callCount() == 1 })
		calls := synth.Calls()
		if calls[len(calls)-1].Text != "hello world" {
			t.Fatalf("job carries wrong text: %q", calls[len(calls)-1].Text)
		}
	})

	t.Run("copy-edit failure keeps raw transcript", func(t *testing.T) {
		synth := tts.NewMock()
		player := &fakePlayer{}
		w := NewWorker(synth, player, testStore())
		w.Start()
		defer w.Stop()

		transcriber := &stt.MockTranscriber{
			TranscribeFunc: func(context.Context, string) (string, error) {
				return "raw transcript", nil
			},
		}
		d := NewDictation(w, &fakeRecorder{dir: t.TempDir()},
			transcriber, &fakeChecker{err: errors.New("server down")})

		text, err := d.RecordAndSubmit(context.Background(), time.Second, tts.VoiceAlloy)
		if err != nil {
			t.Fatalf("copy-edit failure must not fail dictation: %v", err)
		}
		if text != "raw transcript" {
			t.Fatalf("expected raw transcript, got %q", text)
		}
	})

	t.Run("transcription failure enqueues nothing", func(t *testing.T) {
		synth := tts.NewMock()
		player := &fakePlayer{}
		rec := &statusRecorder{}
		w := NewWorker(synth, player, testStore(), WithStatusFunc(rec.record))
		w.Start()
		defer w.Stop()

		transcriber := &stt.MockTranscriber{
			TranscribeFunc: func(context.Context, string) (string, error) {
				return "", errors.New("model crashed")
			},
		}
		d := NewDictation(w, &fakeRecorder{dir: t.TempDir()}, transcriber, nil)

		if _, err := d.RecordAndSubmit(context.Background(), time.Second, tts.VoiceAlloy); err == nil {
			t.Fatal("expected transcription error")
		}

		time.Sleep(50 * time.Millisecond)
		if synth.CallCount("Synthesize") != 0 {
			t.Fatal("failed transcription must never become a job")
		}
		states := rec.snapshot()
		if len(states) < 1 || states[0] != StateError {
			t.Fatalf("expected error status, got %v", states)
		}
	})

	t.Run("recording failure surfaces", func(t *testing.T) {
		w := NewWorker(tts.NewMock(), &fakePlayer{}, testStore())
		w.Start()
		defer w.Stop()

		d := NewDictation(w, &fakeRecorder{err: stt.ErrNoAudio}, &stt.MockTranscriber{}, nil)
		if _, err := d.RecordAndSubmit(context.Background(), time.Second, ""); !errors.Is(err, stt.ErrNoAudio) {
			t.Fatalf("expected ErrNoAudio, got %v", err)
		}
	})
}
