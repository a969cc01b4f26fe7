package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/log"
)

// ExecTranscriber runs an external speech recognizer. The command is a
// shell-style string; the WAV path is appended as the final argument.
// The tool is expected to print either a JSON object with a "text"
// field or the plain transcript on stdout.
type ExecTranscriber struct {
	path   string
	args   []string
	logger *slog.Logger
}

// NewExecTranscriber parses command and checks it is installed.
func NewExecTranscriber(command string, logger *slog.Logger) (*ExecTranscriber, error) {
	if logger == nil {
		logger = log.L()
	}
	parts, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse recognizer command %q: %w", command, err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty recognizer command")
	}
	path, err := exec.LookPath(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRecognizerNotFound, parts[0])
	}
	return &ExecTranscriber{path: path, args: parts[1:], logger: logger}, nil
}

func (t *ExecTranscriber) Name() string {
	return "exec:" + t.path
}

func (t *ExecTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	args := append(append([]string{}, t.args...), wavPath)
	cmd := exec.CommandContext(ctx, t.path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t.logger.Debug("running recognizer", "cmd", t.path, "wav", wavPath)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("recognizer failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("recognizer failed: %w", err)
	}

	return parseTranscript(stdout.Bytes()), nil
}

// parseTranscript accepts either {"text": "..."} JSON or raw text.
func parseTranscript(out []byte) string {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(out, &payload); err == nil && payload.Text != "" {
		return strings.TrimSpace(payload.Text)
	}
	return strings.TrimSpace(string(out))
}

var _ Transcriber = (*ExecTranscriber)(nil)
