package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/cardvault/pkg/logger"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultIdleTimeout   = 5 * time.Minute
)

// Reaper periodically removes idle sessions from a Store.
type Reaper struct {
	store    *Store
	interval time.Duration
	idle     time.Duration
	log      *slog.Logger
	observer func(reaped, remaining int)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReaper creates a reaper for store. It does nothing until Start is called.
func NewReaper(store *Store, opts ...ReaperOption) *Reaper {
	r := &Reaper{
		store:    store,
		interval: defaultSweepInterval,
		idle:     defaultIdleTimeout,
		log:      logger.Noop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start launches the sweep loop. The loop ends when ctx is cancelled or Stop is called.
func (r *Reaper) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return ErrReaperRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.loop(ctx, r.done)

	r.log.InfoContext(ctx, "session reaper started",
		logger.Component("session.reaper"),
		slog.Duration("interval", r.interval),
		slog.Duration("idle_timeout", r.idle),
	)
	return nil
}

// Stop signals the loop and waits for it to finish its last sweep.
// It is safe to call Stop on a reaper that was never started, and to call it twice.
func (r *Reaper) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// release forgets the loop identified by done so Start may launch a new one.
func (r *Reaper) release(done chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == done {
		r.cancel()
		r.cancel, r.done = nil, nil
	}
}

// SweepOnce runs a single sweep and returns the number of sessions removed.
// A panic during the sweep is logged and reported as zero removals.
func (r *Reaper) SweepOnce() (reaped int) {
	defer func() {
		if p := recover(); p != nil {
			reaped = 0
			r.log.Error("session sweep failed",
				logger.Component("session.reaper"),
				logger.Error(fmt.Errorf("panic: %v", p)),
			)
		}
	}()

	reaped = r.store.Sweep(r.idle)
	remaining := r.store.Len()

	r.log.Info("sessions reaped",
		logger.Component("session.reaper"),
		logger.Count(reaped),
		slog.Int("remaining", remaining),
	)

	if r.observer != nil {
		r.observer(reaped, remaining)
	}
	return reaped
}

// Running reports whether the sweep loop is active.
func (r *Reaper) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done != nil
}

// Healthcheck returns a readiness check that fails with ErrReaperStopped
// while the sweep loop is not running.
func (r *Reaper) Healthcheck() func(context.Context) error {
	return func(context.Context) error {
		if !r.Running() {
			return ErrReaperStopped
		}
		return nil
	}
}

func (r *Reaper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer r.release(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.SweepOnce()
		case <-ctx.Done():
			r.SweepOnce()
			r.log.Info("session reaper stopped", logger.Component("session.reaper"))
			return
		}
	}
}
