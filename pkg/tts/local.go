package tts

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/audio"
)

const providerLocal = "local"

// Local implements Provider using an offline espeak-style engine invoked
// over exec. The engine writes a transient WAV artifact which is decoded,
// normalized, and removed before the call returns; removal failures are
// swallowed (fire-and-forget cleanup).
type Local struct {
	cmd    []string
	voices []Voice
	logger *slog.Logger
}

// NewLocal creates the offline backend. The engine's voice table is read
// once at construction; a failure to list voices is not fatal, it only
// disables voice matching.
func NewLocal(opts ...Option) (*Local, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	parser := shellwords.NewParser()
	args, err := parser.Parse(cfg.EngineCommand)
	if err != nil {
		return nil, WrapError(providerLocal, fmt.Errorf("parse engine command: %w", err))
	}
	if len(args) == 0 {
		return nil, WrapError(providerLocal, ErrEngineNotFound)
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, WrapError(providerLocal, fmt.Errorf("%w: %s", ErrEngineNotFound, args[0]))
	}

	l := &Local{
		cmd:    args,
		logger: cfg.Logger.With("component", "tts.local"),
	}
	l.voices = l.listVoices()

	return l, nil
}

// Synthesize runs the engine, decoding the WAV it writes into a Buffer.
func (l *Local) Synthesize(ctx context.Context, text, voice string) (*audio.Buffer, error) {
	if text == "" {
		return nil, WrapError(providerLocal, ErrEmptyText)
	}

	tmp, err := os.CreateTemp("", "text-to-mic-*.wav")
	if err != nil {
		return nil, WrapError(providerLocal, fmt.Errorf("temp file: %w", err))
	}
	tmpPath := tmp.Name()
	tmp.Close()
	// Cleanup failure is deliberately ignored: the artifact is in the OS
	// temp dir and a leftover file must not fail the synthesis.
	defer func() { _ = os.Remove(tmpPath) }()

	args := append([]string{}, l.cmd[1:]...)
	if match, ok := l.matchVoice(voice); ok {
		args = append(args, "-v", match.ID)
	} else if voice != "" {
		l.logger.Debug("no local voice match, using engine default", "voice", voice)
	}
	args = append(args, "-w", tmpPath, text)

	cmd := exec.CommandContext(ctx, l.cmd[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, WrapError(providerLocal, fmt.Errorf("engine failed: %w: %s", err, strings.TrimSpace(stderr.String())))
	}

	buf, err := audio.DecodeWAVFile(tmpPath)
	if err != nil {
		return nil, WrapError(providerLocal, err)
	}

	l.logger.Debug("synthesized audio",
		"chars", len(text),
		"frames", buf.Frames(),
		"sample_rate", buf.SampleRate,
	)

	return buf, nil
}

// Available reports whether the engine binary is still on PATH.
func (l *Local) Available() bool {
	_, err := exec.LookPath(l.cmd[0])
	return err == nil
}

// Name returns the backend name.
func (l *Local) Name() string {
	return providerLocal
}

// Close releases resources.
func (l *Local) Close() error {
	return nil
}

// Voices returns the engine's voice table.
func (l *Local) Voices() []Voice {
	return l.voices
}

// matchVoice finds a local voice whose id or name contains the requested
// voice, case-insensitively. No match is not an error: the engine default
// is used silently.
func (l *Local) matchVoice(voice string) (Voice, bool) {
	return MatchVoice(l.voices, voice)
}

// MatchVoice matches a requested voice against a voice table by
// case-insensitive substring over both id and name.
func MatchVoice(voices []Voice, voice string) (Voice, bool) {
	want := strings.ToLower(strings.TrimSpace(voice))
	if want == "" {
		return Voice{}, false
	}
	for _, v := range voices {
		if strings.Contains(strings.ToLower(v.ID), want) || strings.Contains(strings.ToLower(v.Name), want) {
			return v, true
		}
	}
	return Voice{}, false
}

// listVoices runs the engine's voice listing and parses its table output.
// espeak-style output has a header row and columns:
//
//	Pty Language Age/Gender VoiceName File Other
func (l *Local) listVoices() []Voice {
	out, err := exec.Command(l.cmd[0], "--voices").Output()
	if err != nil {
		l.logger.Warn("could not list engine voices", "error", err)
		return nil
	}

	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	first := true
	for scanner.Scan() {
		if first {
			first = false // header row
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 {
			continue
		}
		voices = append(voices, Voice{ID: fields[4], Name: fields[3]})
	}

	l.logger.Debug("local voices loaded", "count", len(voices))
	return voices
}

// Verify Local implements Provider at compile time.
var _ Provider = (*Local)(nil)
