package tts

import (
	"log/slog"
	"time"
)

// Config holds TTS backend configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Remote backend
	APIKey  string
	BaseURL string
	ModelID string

	// Local backend
	EngineCommand string // e.g. "espeak-ng" or "flite -voice slt"

	// Timeouts and retries
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring TTS backends.
type Option func(*Config)

// WithAPIKey sets the remote API key. An empty key disables the remote
// backend entirely.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL overrides the default remote API URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithModel sets the remote model ID.
func WithModel(modelID string) Option {
	return func(c *Config) {
		c.ModelID = modelID
	}
}

// WithEngineCommand sets the local synthesis command.
func WithEngineCommand(cmd string) Option {
	return func(c *Config) {
		c.EngineCommand = cmd
	}
}

// WithTimeout sets the request timeout for remote synthesis.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetry configures retry behavior for failed remote requests.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithLogger sets the structured logger for the backend.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		ModelID:       ModelTTS1,
		EngineCommand: "espeak-ng",
		Timeout:       30 * time.Second,
		MaxRetries:    3,
		RetryDelay:    100 * time.Millisecond,
		Logger:        slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
