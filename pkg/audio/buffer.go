// Package audio provides the canonical in-memory audio representation used
// by the synthesis and playback pipeline.
//
// Every synthesis backend produces audio in its own encoding (unsigned 8-bit,
// signed 16/32-bit PCM, or float). Normalize converts all of them into a
// single Buffer of float32 samples in [-1, 1] so downstream code never has to
// care where the audio came from.
package audio

import "time"

// Buffer is decoded audio: sample rate, interleaved float32 samples and a
// channel count. A Buffer is created once per synthesis call and must be
// treated as read-only afterwards; the playback fan-out shares one Buffer
// across device goroutines without copying.
type Buffer struct {
	// SampleRate in Hz.
	SampleRate int

	// Channels is 1 for mono, 2 for stereo.
	Channels int

	// Samples holds interleaved float32 samples in [-1.0, 1.0].
	Samples []float32
}

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if b == nil || b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Empty reports whether the buffer holds no audio. Empty buffers are a
// playback no-op, not an error.
func (b *Buffer) Empty() bool {
	return b == nil || len(b.Samples) == 0
}

// Duration returns the playback duration of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// ExpandMono returns a stereo buffer with identical left/right channels.
// Buffers that are already multi-channel are returned unchanged. The
// expansion is done once, before fan-out, so every device receives
// stereo-compatible data without per-device work.
func (b *Buffer) ExpandMono() *Buffer {
	if b == nil || b.Channels != 1 {
		return b
	}

	out := make([]float32, len(b.Samples)*2)
	for i, s := range b.Samples {
		out[i*2] = s
		out[i*2+1] = s
	}
	return &Buffer{
		SampleRate: b.SampleRate,
		Channels:   2,
		Samples:    out,
	}
}
