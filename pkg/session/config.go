package session

import (
	"fmt"
	"time"
)

// Config holds session configuration
type Config struct {
	// HeaderName carries the token in both directions (default: "X-Session-Id")
	HeaderName string `env:"SESSION_HEADER" envDefault:"X-Session-Id"`

	// IdleTimeout is how long a session may stay inactive before it is reaped
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"5m"`

	// SweepInterval between reaper passes
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`

	// TokenBytes is the number of random bytes per token, hex-encoded on the wire
	TokenBytes int `env:"SESSION_TOKEN_BYTES" envDefault:"64"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		HeaderName:    DefaultHeaderName,
		IdleTimeout:   5 * time.Minute,
		SweepInterval: 5 * time.Minute,
		TokenBytes:    DefaultTokenBytes,
	}
}

// Validate checks that every knob is within accepted bounds.
func (c Config) Validate() error {
	switch {
	case c.HeaderName == "":
		return fmt.Errorf("%w: header name is empty", ErrInvalidConfig)
	case c.IdleTimeout <= 0:
		return fmt.Errorf("%w: idle timeout must be positive, got %s", ErrInvalidConfig, c.IdleTimeout)
	case c.SweepInterval <= 0:
		return fmt.Errorf("%w: sweep interval must be positive, got %s", ErrInvalidConfig, c.SweepInterval)
	case c.TokenBytes < MinTokenBytes:
		return fmt.Errorf("%w: token length must be at least %d bytes, got %d", ErrInvalidConfig, MinTokenBytes, c.TokenBytes)
	}
	return nil
}

// NewFromConfig builds a Store, its Reaper and the request Binding from cfg.
// Extra options are applied after the ones derived from cfg.
func NewFromConfig(cfg Config, storeOpts []Option, reaperOpts []ReaperOption, bindingOpts ...BindingOption) (*Store, *Reaper, *Binding, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	store := NewStore(append([]Option{WithTokenBytes(cfg.TokenBytes)}, storeOpts...)...)

	reaper := NewReaper(store, append([]ReaperOption{
		WithSweepInterval(cfg.SweepInterval),
		WithIdleTimeout(cfg.IdleTimeout),
	}, reaperOpts...)...)

	binding := NewBinding(store, append([]BindingOption{
		WithTransport(NewHeaderTransport(cfg.HeaderName)),
	}, bindingOpts...)...)

	return store, reaper, binding, nil
}
