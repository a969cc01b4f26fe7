package audio

import "testing"

func TestExpandMono(t *testing.T) {
	t.Run("mono duplicates channels", func(t *testing.T) {
		in := &Buffer{
			SampleRate: 24000,
			Channels:   1,
			Samples:    []float32{0.1, -0.2, 0.3},
		}
		out := in.ExpandMono()

		if out.Channels != 2 {
			t.Fatalf("expected 2 channels, got %d", out.Channels)
		}
		if out.Frames() != in.Frames() {
			t.Fatalf("frame count changed: %d != %d", out.Frames(), in.Frames())
		}
		for i := 0; i < out.Frames(); i++ {
			left, right := out.Samples[i*2], out.Samples[i*2+1]
			if left != right {
				t.Fatalf("frame %d: left %v != right %v", i, left, right)
			}
			if left != in.Samples[i] {
				t.Fatalf("frame %d: expected %v, got %v", i, in.Samples[i], left)
			}
		}
	})

	t.Run("stereo unchanged", func(t *testing.T) {
		in := &Buffer{SampleRate: 24000, Channels: 2, Samples: []float32{0.1, 0.2}}
		if out := in.ExpandMono(); out != in {
			t.Fatal("stereo buffer should be returned as-is")
		}
	})

	t.Run("nil safe", func(t *testing.T) {
		var b *Buffer
		if out := b.ExpandMono(); out != nil {
			t.Fatal("nil buffer should stay nil")
		}
	})
}

func TestBufferDuration(t *testing.T) {
	b := &Buffer{SampleRate: 24000, Channels: 2, Samples: make([]float32, 48000)}
	if got := b.Duration().Seconds(); got != 1.0 {
		t.Fatalf("expected 1s, got %vs", got)
	}
}
