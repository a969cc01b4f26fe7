package playback

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/audio"
)

// ListDevices enumerates the available playback devices. The returned
// IDs are positional: passing Device.ID to PlayAll selects that entry.
func ListDevices() ([]Device, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	infos, err := mctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("enumerate playback devices: %w", err)
	}

	devices := make([]Device, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, Device{
			ID:        DeviceID(i),
			Name:      info.Name(),
			IsDefault: info.IsDefault != 0,
		})
	}
	return devices, nil
}

// openSystemSink is the default OpenSinkFunc. Device resolution is
// deferred to Play so that a stale index fails the play, not the open.
func openSystemSink(id DeviceID) (Sink, error) {
	return &systemSink{id: id}, nil
}

type systemSink struct {
	id DeviceID
}

func (s *systemSink) Play(ctx context.Context, buf *audio.Buffer) error {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = uint32(buf.Channels)
	cfg.SampleRate = uint32(buf.SampleRate)

	if s.id != DefaultDevice {
		infos, err := mctx.Devices(malgo.Playback)
		if err != nil {
			return fmt.Errorf("enumerate playback devices: %w", err)
		}
		if int(s.id) < 0 || int(s.id) >= len(infos) {
			return fmt.Errorf("unknown playback device %d (have %d)", s.id, len(infos))
		}
		devID := infos[s.id].ID
		cfg.Playback.DeviceID = devID.Pointer()
	}

	feeder := &pcmFeeder{
		pcm:         floatBytes(buf.Samples),
		drainTarget: drainBytes(buf),
	}
	var (
		once sync.Once
		done = make(chan struct{})
	)
	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, _ uint32) {
			if feeder.fill(out) {
				once.Do(func() { close(done) })
			}
		},
	}

	dev, err := malgo.InitDevice(mctx.Context, cfg, callbacks)
	if err != nil {
		return fmt.Errorf("init playback device: %w", err)
	}
	defer dev.Uninit()

	if err := dev.Start(); err != nil {
		return fmt.Errorf("start playback device: %w", err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *systemSink) Close() error {
	return nil
}

// pcmFeeder streams a byte buffer into device data callbacks, then a
// short silent drain. Signalling completion the moment the last byte is
// copied would let device teardown clip the tail while it still sits in
// the hardware buffer; the drain gives it time to reach the speaker.
// Only the audio thread touches the feeder, so it needs no locking.
type pcmFeeder struct {
	pcm         []byte
	pos         int
	drain       int
	drainTarget int
}

// fill writes the next chunk into out and reports whether the stream,
// including its silent drain, has completed.
func (f *pcmFeeder) fill(out []byte) bool {
	n := copy(out, f.pcm[f.pos:])
	f.pos += n
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	if f.pos < len(f.pcm) {
		return false
	}
	f.drain += len(out) - n
	return f.drain >= f.drainTarget
}

// drainBytes is 100ms of silence in the buffer's format.
func drainBytes(buf *audio.Buffer) int {
	return buf.SampleRate * buf.Channels * 4 / 10
}

func floatBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}
