package tts

import (
	"context"
	"log/slog"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/audio"
)

// Chain implements Provider by trying backends in order. The first success
// wins; a SynthesisError is returned only when every backend fails.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a backend chain that tries providers in order.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		providers: providers,
		logger:    logger.With("component", "tts.chain"),
	}
}

// New resolves the synthesis capability from the configuration and builds
// the backend chain: remote first when credentials are configured, the
// local engine as fallback (or as the only backend when no key is set).
// The remote backend is never constructed without credentials, so it can
// never be invoked for key-less configurations.
func New(opts ...Option) (*Chain, Backend, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	var providers []Provider
	backend := BackendNone

	if cfg.APIKey != "" {
		remote, err := NewOpenAI(opts...)
		if err != nil {
			return nil, BackendNone, err
		}
		providers = append(providers, remote)
		backend = BackendRemote
	}

	local, err := NewLocal(opts...)
	if err != nil {
		cfg.Logger.Warn("local synthesis engine unavailable", "error", err)
	} else {
		providers = append(providers, local)
		if backend == BackendNone {
			backend = BackendLocal
		}
	}

	if len(providers) == 0 {
		return nil, BackendNone, ErrNoBackend
	}

	cfg.Logger.Info("synthesis backend resolved",
		"backend", backend.String(),
		"fallbacks", len(providers)-1,
	)

	return NewChain(cfg.Logger, providers...), backend, nil
}

// Synthesize tries each backend until one succeeds.
func (c *Chain) Synthesize(ctx context.Context, text, voice string) (*audio.Buffer, error) {
	var errs []error

	for i, p := range c.providers {
		if !p.Available() {
			errs = append(errs, WrapError(p.Name(), ErrNoBackend))
			continue
		}

		buf, err := p.Synthesize(ctx, text, voice)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback backend succeeded",
					"backend", p.Name(),
					"chars", len(text),
				)
			}
			return buf, nil
		}

		errs = append(errs, err)
		c.logger.Warn("backend failed, trying next",
			"backend", p.Name(),
			"error", err,
		)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, &SynthesisError{Errors: errs}
}

// Available reports whether any backend in the chain is usable.
func (c *Chain) Available() bool {
	for _, p := range c.providers {
		if p.Available() {
			return true
		}
	}
	return false
}

// Name returns the backend name.
func (c *Chain) Name() string {
	return "chain"
}

// Close closes all backends.
func (c *Chain) Close() error {
	var lastErr error
	for _, p := range c.providers {
		if err := p.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Providers returns the backends in fallback order.
func (c *Chain) Providers() []Provider {
	return c.providers
}

// Verify Chain implements Provider at compile time.
var _ Provider = (*Chain)(nil)
