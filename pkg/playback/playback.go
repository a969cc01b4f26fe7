// Package playback fans audio buffers out to one or more output devices.
//
// Devices are addressed by their enumeration index as reported by
// ListDevices. An empty device list means "system default". Every device
// gets its own sink and its own goroutine; one device failing does not
// stop the others, and PlayAll returns only after every device has
// finished or failed.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/log"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/audio"
)

// DeviceID addresses an output device by its enumeration index.
type DeviceID int

// DefaultDevice selects the operating system's default output device.
const DefaultDevice DeviceID = -1

// Device describes one playback device as reported by the backend.
type Device struct {
	ID        DeviceID `json:"id"`
	Name      string   `json:"name"`
	IsDefault bool     `json:"is_default"`
}

// DeviceError wraps a failure on a specific device.
type DeviceError struct {
	Device DeviceID
	Err    error
}

func (e *DeviceError) Error() string {
	if e.Device == DefaultDevice {
		return fmt.Sprintf("playback on default device: %v", e.Err)
	}
	return fmt.Sprintf("playback on device %d: %v", e.Device, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Result reports the outcome of playback on one device.
type Result struct {
	Device  DeviceID
	Err     error
	Elapsed time.Duration
}

// Sink plays a single buffer to a single device. Play blocks until the
// buffer has been rendered or the context is cancelled.
type Sink interface {
	Play(ctx context.Context, buf *audio.Buffer) error
	Close() error
}

// OpenSinkFunc opens a sink bound to the given device.
type OpenSinkFunc func(id DeviceID) (Sink, error)

// Engine plays buffers to sets of devices in parallel.
type Engine struct {
	open   OpenSinkFunc
	logger *slog.Logger
}

// NewEngine returns an engine backed by the system audio devices.
func NewEngine(logger *slog.Logger) *Engine {
	return NewEngineWithOpener(openSystemSink, logger)
}

// NewEngineWithOpener returns an engine that opens sinks through open.
// Used by tests to substitute mock sinks.
func NewEngineWithOpener(open OpenSinkFunc, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = log.L()
	}
	return &Engine{open: open, logger: logger}
}

// PlayAll renders buf on every device in ids at the same time and waits
// for all of them. An empty ids plays to the default device. Mono input
// is expanded to stereo once, before fan-out, so every sink receives the
// same interleaved data. Results come back in the same order as ids; a
// device failure is recorded in its Result and does not abort the rest.
func (e *Engine) PlayAll(ctx context.Context, buf *audio.Buffer, ids []DeviceID) []Result {
	if buf == nil || buf.Empty() {
		return nil
	}
	buf = buf.ExpandMono()

	if len(ids) == 0 {
		ids = []DeviceID{DefaultDevice}
	}

	results := make([]Result, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id DeviceID) {
			defer wg.Done()
			start := time.Now()
			err := e.playOne(ctx, buf, id)
			results[i] = Result{Device: id, Err: err, Elapsed: time.Since(start)}
			if err != nil {
				e.logger.Error("playback failed", "device", int(id), "error", err)
			}
		}(i, id)
	}
	wg.Wait()
	return results
}

func (e *Engine) playOne(ctx context.Context, buf *audio.Buffer, id DeviceID) error {
	sink, err := e.open(id)
	if err != nil {
		return &DeviceError{Device: id, Err: err}
	}
	defer sink.Close()

	if err := sink.Play(ctx, buf); err != nil {
		return &DeviceError{Device: id, Err: err}
	}
	return nil
}

// Failed collects the errors out of a result set, or nil if all devices
// played cleanly.
func Failed(results []Result) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
