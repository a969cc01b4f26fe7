// Package tts provides a unified interface for text-to-speech backends.
//
// Two backends are supported: a remote OpenAI synthesis service (used when an
// API key is configured) and a local offline engine driven over exec. The
// Chain type composes them so callers get automatic fallback without caring
// which backend produced the audio. All backends return the canonical
// audio.Buffer representation.
//
// Example usage:
//
//	provider, _ := tts.New(
//	    tts.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer provider.Close()
//
//	buf, _ := provider.Synthesize(ctx, "Hello world", "alloy")
package tts

import (
	"context"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/audio"
)

// Provider defines the TTS backend interface.
// All implementations must satisfy this interface so backends can be
// swapped or chained without changing caller code.
type Provider interface {
	// Synthesize converts text to normalized audio. The call is
	// synchronous and potentially slow (network round-trip or local
	// engine latency); never run it on an interactive goroutine.
	Synthesize(ctx context.Context, text, voice string) (*audio.Buffer, error)

	// Available is a lightweight runtime check for whether the backend
	// can be used at all (credentials configured, binary on PATH).
	Available() bool

	// Name returns the backend name for logging.
	Name() string

	// Close releases any resources held by the backend.
	Close() error
}

// Remote voice options. The remote service accepts exactly this set; the
// local engine treats them as hints matched against its own voice table.
const (
	VoiceAlloy   = "alloy"   // Neutral voice
	VoiceEcho    = "echo"    // Male voice
	VoiceFable   = "fable"   // British accent
	VoiceOnyx    = "onyx"    // Deep male voice
	VoiceNova    = "nova"    // Female voice
	VoiceShimmer = "shimmer" // Soft female voice
)

// Voices returns the enumerated voice identifiers in display order.
func Voices() []string {
	return []string{VoiceAlloy, VoiceEcho, VoiceFable, VoiceOnyx, VoiceNova, VoiceShimmer}
}

// ValidVoice reports whether id is one of the enumerated voices.
func ValidVoice(id string) bool {
	for _, v := range Voices() {
		if v == id {
			return true
		}
	}
	return false
}

// Voice describes a voice offered by a backend.
type Voice struct {
	ID   string // Backend-specific identifier
	Name string // Human-readable name
}

// Backend identifies which synthesis capability was resolved at startup.
type Backend int

const (
	// BackendNone means no backend is usable; every synthesis call fails.
	BackendNone Backend = iota
	// BackendLocal means only the offline engine is usable.
	BackendLocal
	// BackendRemote means the remote service is usable (the local engine
	// may still serve as fallback).
	BackendRemote
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendRemote:
		return "remote"
	case BackendLocal:
		return "local"
	default:
		return "none"
	}
}
