package stt

import (
	"context"
	"sync"
)

// MockTranscriber is a configurable Transcriber for testing.
type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, wavPath string) (string, error)
	MockName       string

	mu    sync.Mutex
	calls []string
}

func (m *MockTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, wavPath)
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, wavPath)
	}
	return "", nil
}

func (m *MockTranscriber) Name() string {
	if m.MockName != "" {
		return m.MockName
	}
	return "mock"
}

// Calls returns the WAV paths handed to Transcribe, in order.
func (m *MockTranscriber) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

var _ Transcriber = (*MockTranscriber)(nil)
