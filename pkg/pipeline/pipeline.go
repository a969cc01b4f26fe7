// Package pipeline runs the text-to-speech job queue.
//
// A single worker goroutine consumes jobs in FIFO order. For each job
// it synthesizes audio, then fans it out to the configured devices,
// publishing a status update at every phase boundary. Playback blocks
// the worker: the next job's synthesis starts only after the current
// job's fan-out returns. One job failing never stops the loop.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/config"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/log"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/audio"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/playback"
)

// State is the externally visible phase of the pipeline.
type State int

const (
	StateIdle State = iota
	StateSynthesizing
	StateQueued
	StatePlaying
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSynthesizing:
		return "synthesizing"
	case StateQueued:
		return "queued"
	case StatePlaying:
		return "playing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is one published state transition.
type Status struct {
	State   State  `json:"state"`
	JobID   string `json:"job_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatusFunc receives status updates. It is called from the worker
// goroutine and must not block for long.
type StatusFunc func(Status)

// Synthesizer turns text into audio. Satisfied by tts.Chain and by
// any single tts.Provider.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (*audio.Buffer, error)
}

// Player fans a buffer out to a set of devices.
type Player interface {
	PlayAll(ctx context.Context, buf *audio.Buffer, ids []playback.DeviceID) []playback.Result
}

// Job is one unit of work. The config snapshot is taken at enqueue
// time so later settings changes cannot race a job in flight.
type Job struct {
	ID        string
	Text      string
	Voice     string
	Devices   []playback.DeviceID
	Snapshot  config.Snapshot
	Submitted time.Time
}

// ErrStopped is returned by Submit after the worker has been stopped.
var ErrStopped = errors.New("pipeline: worker stopped")

// ErrQueueFull is returned when the job queue cannot take more work.
var ErrQueueFull = errors.New("pipeline: queue full")

const queueDepth = 64

// Worker owns the job queue and its single consumer goroutine.
type Worker struct {
	synth  Synthesizer
	player Player
	cfg    *config.Store
	logger *slog.Logger

	onStatus StatusFunc

	jobs chan Job
	stop chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	stopped bool
	last    Status
}

// Option configures a Worker.
type Option func(*Worker)

// WithStatusFunc registers the status subscription callback.
func WithStatusFunc(fn StatusFunc) Option {
	return func(w *Worker) { w.onStatus = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Worker) { w.logger = l }
}

// NewWorker wires a worker. cfg is read for a fresh snapshot on every
// Submit; the worker never writes it.
func NewWorker(synth Synthesizer, player Player, cfg *config.Store, opts ...Option) *Worker {
	if cfg == nil {
		cfg = config.NewStore(nil, "")
	}
	w := &Worker{
		synth:  synth,
		player: player,
		cfg:    cfg,
		logger: log.L(),
		jobs:   make(chan Job, queueDepth),
		stop:   make(chan struct{}),
		last:   Status{State: StateIdle},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the consumer loop.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop shuts the worker down. The job in flight finishes naturally;
// queued jobs are dropped. Stop blocks until the loop has exited.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	close(w.stop)
	w.wg.Wait()
}

// Submit trims and enqueues a job without blocking. Blank text is
// rejected silently: no job, no status change, nil error. An empty
// voice falls back to the configured one.
func (w *Worker) Submit(text, voice string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return ErrStopped
	}

	snap := w.cfg.Snapshot()
	if voice == "" {
		voice = snap.Voice
	}

	job := Job{
		ID:        uuid.NewString(),
		Text:      text,
		Voice:     voice,
		Devices:   deviceIDs(snap.Devices),
		Snapshot:  snap,
		Submitted: time.Now(),
	}

	select {
	case w.jobs <- job:
		w.logger.Debug("job enqueued", "job", job.ID, "voice", voice, "devices", len(job.Devices))
		return nil
	default:
		return ErrQueueFull
	}
}

// Status returns the most recently published status.
func (w *Worker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// SetStatusFunc replaces the status callback. Safe to call after Start;
// used when the subscriber is built after the worker.
func (w *Worker) SetStatusFunc(fn StatusFunc) {
	w.mu.Lock()
	w.onStatus = fn
	w.mu.Unlock()
}

// ReportError publishes a transient error from outside the consumer
// loop, then restores the phase that was current before it. A dictation
// failure reported while a job is playing must not flash Idle over the
// Playing state. The restore is skipped if the worker published
// something newer in between.
func (w *Worker) ReportError(msg string) {
	errStatus := Status{State: StateError, Message: msg}

	w.mu.Lock()
	prev := w.last
	w.last = errStatus
	fn := w.onStatus
	w.mu.Unlock()
	if fn != nil {
		fn(errStatus)
	}

	if prev.State == StateError {
		prev = Status{State: StateIdle}
	}

	w.mu.Lock()
	restored := w.last == errStatus
	if restored {
		w.last = prev
	}
	fn = w.onStatus
	w.mu.Unlock()
	if restored && fn != nil {
		fn(prev)
	}
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *Worker) process(job Job) {
	ctx := context.Background()
	start := time.Now()

	w.publish(Status{State: StateSynthesizing, JobID: job.ID})
	buf, err := w.synth.Synthesize(ctx, job.Text, job.Voice)
	if err != nil {
		w.logger.Error("synthesis failed", "job", job.ID, "error", err)
		w.publish(Status{State: StateError, JobID: job.ID, Message: err.Error()})
		w.publish(Status{State: StateIdle})
		return
	}
	if buf.Empty() {
		w.logger.Warn("synthesis produced no audio", "job", job.ID)
		w.publish(Status{State: StateIdle})
		return
	}

	w.publish(Status{State: StateQueued, JobID: job.ID})
	w.publish(Status{State: StatePlaying, JobID: job.ID})
	results := w.player.PlayAll(ctx, buf, job.Devices)
	for _, errPlay := range playback.Failed(results) {
		w.logger.Error("playback error", "job", job.ID, "error", errPlay)
	}

	w.logger.Info("job done", "job", job.ID,
		"audio", buf.Duration().Round(time.Millisecond),
		"elapsed", time.Since(start).Round(time.Millisecond))
	w.publish(Status{State: StateIdle})
}

func (w *Worker) publish(s Status) {
	w.mu.Lock()
	w.last = s
	fn := w.onStatus
	w.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func deviceIDs(ids []int) []playback.DeviceID {
	out := make([]playback.DeviceID, len(ids))
	for i, id := range ids {
		out[i] = playback.DeviceID(id)
	}
	return out
}
