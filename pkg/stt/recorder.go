package stt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/log"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/audio"
)

// Recorder captures microphone audio to temporary WAV files.
type Recorder struct {
	logger *slog.Logger
}

// NewRecorder returns a recorder using the default capture device.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = log.L()
	}
	return &Recorder{logger: logger}
}

// Record captures up to maxDuration of S16 mono audio from the default
// microphone and writes it to a temporary WAV file. The caller owns the
// returned path and should remove it when done. Cancelling the context
// stops the recording early and keeps what was captured so far.
func (r *Recorder) Record(ctx context.Context, maxDuration time.Duration) (string, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return "", fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = Channels
	cfg.SampleRate = SampleRate

	var (
		mu  sync.Mutex
		pcm []byte
	)
	callbacks := malgo.DeviceCallbacks{
		Data: func(_, in []byte, _ uint32) {
			mu.Lock()
			pcm = append(pcm, in...)
			mu.Unlock()
		},
	}

	dev, err := malgo.InitDevice(mctx.Context, cfg, callbacks)
	if err != nil {
		return "", fmt.Errorf("init capture device: %w", err)
	}

	if err := dev.Start(); err != nil {
		dev.Uninit()
		return "", fmt.Errorf("start capture device: %w", err)
	}

	r.logger.Info("recording", "max_duration", maxDuration)
	select {
	case <-time.After(maxDuration):
	case <-ctx.Done():
	}
	dev.Uninit()

	mu.Lock()
	defer mu.Unlock()
	if len(pcm) < 2 {
		return "", ErrNoAudio
	}

	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
	}

	f, err := os.CreateTemp("", "text-to-mic-rec-*.wav")
	if err != nil {
		return "", fmt.Errorf("create recording file: %w", err)
	}
	if err := audio.EncodeWAVInt16(f, samples, SampleRate, Channels); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write recording: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close recording: %w", err)
	}

	r.logger.Debug("recording done", "path", f.Name(), "samples", len(samples))
	return f.Name(), nil
}
