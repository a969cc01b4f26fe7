package playback

import (
	"context"
	"sync"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/audio"
)

// MockSink is a configurable Sink for testing. Function fields override
// behavior; the zero value plays everything instantly and records it.
type MockSink struct {
	PlayFunc  func(ctx context.Context, buf *audio.Buffer) error
	CloseFunc func() error

	mu     sync.Mutex
	played []*audio.Buffer
	closed bool
}

func (m *MockSink) Play(ctx context.Context, buf *audio.Buffer) error {
	m.mu.Lock()
	m.played = append(m.played, buf)
	m.mu.Unlock()

	if m.PlayFunc != nil {
		return m.PlayFunc(ctx, buf)
	}
	return nil
}

func (m *MockSink) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Played returns every buffer handed to the sink, in order.
func (m *MockSink) Played() []*audio.Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*audio.Buffer, len(m.played))
	copy(out, m.played)
	return out
}

// Closed reports whether Close has been called.
func (m *MockSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockOpener hands out per-device mock sinks and remembers which
// devices were opened.
type MockOpener struct {
	// Sinks maps a device to its sink. Devices without an entry get
	// a fresh zero-value MockSink.
	Sinks map[DeviceID]*MockSink
	// OpenErr, when set for a device, makes Open fail for it.
	OpenErr map[DeviceID]error

	mu     sync.Mutex
	opened []DeviceID
}

// Open implements OpenSinkFunc.
func (m *MockOpener) Open(id DeviceID) (Sink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.opened = append(m.opened, id)
	if err, ok := m.OpenErr[id]; ok {
		return nil, err
	}
	if s, ok := m.Sinks[id]; ok {
		return s, nil
	}
	if m.Sinks == nil {
		m.Sinks = make(map[DeviceID]*MockSink)
	}
	s := &MockSink{}
	m.Sinks[id] = s
	return s, nil
}

// Opened returns the devices opened so far.
func (m *MockOpener) Opened() []DeviceID {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DeviceID, len(m.opened))
	copy(out, m.opened)
	return out
}

var _ Sink = (*MockSink)(nil)
