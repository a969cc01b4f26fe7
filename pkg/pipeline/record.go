package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/grammar"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/stt"
)

// AudioRecorder captures microphone audio into a WAV file.
type AudioRecorder interface {
	Record(ctx context.Context, maxDuration time.Duration) (string, error)
}

// Dictation wires recording, transcription and optional copy-editing
// in front of the worker's Submit.
type Dictation struct {
	worker   *Worker
	recorder AudioRecorder
	stt      stt.Transcriber
	checker  grammar.Checker
}

// NewDictation builds a dictation front end. checker may be nil to skip
// copy-editing.
func NewDictation(worker *Worker, recorder AudioRecorder, transcriber stt.Transcriber, checker grammar.Checker) *Dictation {
	return &Dictation{
		worker:   worker,
		recorder: recorder,
		stt:      transcriber,
		checker:  checker,
	}
}

// RecordAndSubmit records for up to maxDuration, transcribes the audio
// and enqueues the text as a job. A recording or transcription failure
// is surfaced as an error status and returned; no job is enqueued. A
// copy-edit failure is logged and the raw transcript is used.
func (d *Dictation) RecordAndSubmit(ctx context.Context, maxDuration time.Duration, voice string) (string, error) {
	wavPath, err := d.recorder.Record(ctx, maxDuration)
	if err != nil {
		err = fmt.Errorf("recording failed: %w", err)
		d.worker.ReportError(err.Error())
		return "", err
	}
	defer os.Remove(wavPath)

	text, err := d.stt.Transcribe(ctx, wavPath)
	if err != nil {
		err = fmt.Errorf("transcription failed: %w", err)
		d.worker.ReportError(err.Error())
		return "", err
	}

	if d.checker != nil {
		corrected, err := d.checker.Correct(ctx, text)
		if err != nil {
			d.worker.logger.Warn("copy-edit failed, using raw transcript", "error", err)
		} else {
			text = corrected
		}
	}

	if err := d.worker.Submit(text, voice); err != nil {
		return text, err
	}
	return text, nil
}
