package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when the input does not parse as a WAV file.
var ErrInvalidWAV = errors.New("audio: invalid WAV data")

// DecodeWAV parses a WAV stream and normalizes it into a Buffer.
func DecodeWAV(r io.ReadSeeker) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audio: decode wav: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	if pcm.SourceBitDepth != 0 {
		bitDepth = pcm.SourceBitDepth
	}

	return NormalizeInts(pcm.Data, bitDepth, int(dec.SampleRate), int(dec.NumChans)), nil
}

// DecodeWAVBytes decodes an in-memory WAV payload, as returned by the remote
// synthesis API.
func DecodeWAVBytes(data []byte) (*Buffer, error) {
	return DecodeWAV(bytes.NewReader(data))
}

// DecodeWAVFile decodes a WAV file from disk, as produced by the local
// synthesis engine.
func DecodeWAVFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open wav: %w", err)
	}
	defer f.Close()
	return DecodeWAV(f)
}

// EncodeWAVInt16 writes 16-bit mono/stereo PCM as a WAV file. The recorder
// uses this to hand captured audio to the transcriber, which wants a file.
func EncodeWAVInt16(f *os.File, pcm []int16, sampleRate, channels int) error {
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(pcm)),
	}
	for i, s := range pcm {
		buf.Data[i] = int(s)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audio: write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audio: close wav encoder: %w", err)
	}
	return nil
}
