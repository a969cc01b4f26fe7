// Package config holds the persisted settings for text-to-mic.
//
// Settings live in a small JSON document owned by whatever settings UI sits
// on top of the pipeline. The pipeline itself never writes it; it only takes
// copy-on-read snapshots so in-flight jobs are immune to concurrent edits.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Defaults applied when the settings file is missing or partial.
const (
	DefaultVoice      = "alloy"
	DefaultSampleRate = 24000
)

// Config is the on-disk settings document.
//
// Device fields are playback device indices as reported by device
// enumeration; nil means "not configured". A nil APIKey disables the remote
// synthesis backend.
type Config struct {
	HeadphoneDevice *int    `json:"headphone_device"`
	MicDevice       *int    `json:"mic_device"`
	Voice           string  `json:"voice"`
	APIKey          *string `json:"api_key"`
	SampleRate      int     `json:"sample_rate"`
}

// Default returns a Config with default values and no devices configured.
func Default() *Config {
	return &Config{
		Voice:      DefaultVoice,
		SampleRate: DefaultSampleRate,
	}
}

// DefaultPath returns the default settings file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(dir, "text-to-mic", "config.json")
}

// Load reads the settings file at path. A missing file is not an error:
// defaults are returned so a first run works without any setup.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}

	return cfg, nil
}

// Save writes the settings file, creating parent directories as needed.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Snapshot is an immutable copy of the settings a job needs. It is taken at
// enqueue time so a settings edit mid-job can never race the worker.
type Snapshot struct {
	// Devices lists the configured output device indices in playback
	// order: headphones first, then the virtual microphone. Empty means
	// "play to the system default output".
	Devices []int

	Voice      string
	APIKey     string
	SampleRate int
}

// Store serializes access to a Config shared between the pipeline and a
// settings surface. The pipeline takes snapshots per job; settings
// handlers read and replace the document. Both paths go through the
// store's lock, so a settings edit can never race an enqueue.
type Store struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

// NewStore wraps cfg. An empty path disables persistence on Update.
func NewStore(cfg *Config, path string) *Store {
	if cfg == nil {
		cfg = Default()
	}
	return &Store{cfg: cfg, path: path}
}

// Snapshot returns a copy of the values a synthesis job consumes.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Snapshot()
}

// Get returns a copy of the current document.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

// Update applies fn to the document under the write lock and persists
// the result when a path is configured.
func (s *Store) Update(fn func(*Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.cfg); err != nil {
		return err
	}
	if s.path == "" {
		return nil
	}
	return s.cfg.Save(s.path)
}

// Snapshot copies the values a synthesis job consumes. Callers sharing
// the Config across goroutines should go through a Store instead.
func (c *Config) Snapshot() Snapshot {
	s := Snapshot{
		Voice:      c.Voice,
		SampleRate: c.SampleRate,
	}
	if c.HeadphoneDevice != nil {
		s.Devices = append(s.Devices, *c.HeadphoneDevice)
	}
	if c.MicDevice != nil {
		s.Devices = append(s.Devices, *c.MicDevice)
	}
	if c.APIKey != nil {
		s.APIKey = *c.APIKey
	}
	return s
}
