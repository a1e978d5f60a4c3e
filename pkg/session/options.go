package session

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Option is a functional option for configuring the Store
type Option func(*Store)

// WithClock sets the time source used for activity tracking
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTokenBytes sets the number of random bytes per token.
// Values below MinTokenBytes are raised to MinTokenBytes.
func WithTokenBytes(n int) Option {
	return func(s *Store) {
		s.tokenBytes = max(n, MinTokenBytes)
	}
}

// WithEntropy replaces crypto/rand as the token source.
func WithEntropy(r io.Reader) Option {
	return func(s *Store) {
		if r != nil {
			s.entropy = r
		}
	}
}

// ReaperOption is a functional option for configuring the Reaper
type ReaperOption func(*Reaper)

// WithSweepInterval sets the time between sweeps
func WithSweepInterval(d time.Duration) ReaperOption {
	return func(r *Reaper) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithIdleTimeout sets the inactivity window after which sessions are reaped
func WithIdleTimeout(d time.Duration) ReaperOption {
	return func(r *Reaper) {
		if d > 0 {
			r.idle = d
		}
	}
}

// WithReaperLogger sets the logger for sweep reports
func WithReaperLogger(log *slog.Logger) ReaperOption {
	return func(r *Reaper) {
		if log != nil {
			r.log = log
		}
	}
}

// WithObserver registers a callback invoked after every sweep with the number
// of sessions reaped and the number still alive.
func WithObserver(fn func(reaped, remaining int)) ReaperOption {
	return func(r *Reaper) {
		r.observer = fn
	}
}

// BindingOption is a functional option for configuring the Binding
type BindingOption func(*Binding)

// WithTransport sets a custom token transport
func WithTransport(t Transport) BindingOption {
	return func(b *Binding) {
		if t != nil {
			b.transport = t
		}
	}
}

// WithBindingLogger sets the logger used when a session cannot be resolved
func WithBindingLogger(log *slog.Logger) BindingOption {
	return func(b *Binding) {
		if log != nil {
			b.log = log
		}
	}
}

// WithErrorHandler sets the handler invoked when a session cannot be resolved
func WithErrorHandler(h func(w http.ResponseWriter, r *http.Request, err error)) BindingOption {
	return func(b *Binding) {
		if h != nil {
			b.errorHandler = h
		}
	}
}
