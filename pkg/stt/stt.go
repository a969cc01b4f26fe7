// Package stt records microphone audio and turns it into text.
//
// Recording uses the system capture device; transcription shells out to
// a whisper-style command-line tool so the binary has no model baked in.
package stt

import (
	"context"
	"errors"
)

// Recording defaults. 16 kHz mono S16 is what whisper models expect.
const (
	SampleRate = 16000
	Channels   = 1
)

var (
	// ErrNoAudio is returned when a recording captured nothing.
	ErrNoAudio = errors.New("stt: no audio captured")
	// ErrRecognizerNotFound is returned when the transcriber command
	// is not installed.
	ErrRecognizerNotFound = errors.New("stt: recognizer command not found")
)

// Transcriber converts a WAV file on disk into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
	Name() string
}
