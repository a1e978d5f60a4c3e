package session_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cardvault/pkg/logger"
	"github.com/dmitrymomot/cardvault/pkg/session"
)

// syncBuffer guards a bytes.Buffer shared with the reaper goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReaper_SweepOnce(t *testing.T) {
	t.Run("reports reaped count", func(t *testing.T) {
		clock := newFakeClock()
		store := session.NewStore(session.WithClock(clock))
		out := &syncBuffer{}

		var observed [2]int
		reaper := session.NewReaper(store,
			session.WithIdleTimeout(time.Minute),
			session.WithReaperLogger(logger.New(logger.WithOutput(out))),
			session.WithObserver(func(reaped, remaining int) {
				observed = [2]int{reaped, remaining}
			}),
		)

		for range 3 {
			_, err := store.Create()
			require.NoError(t, err)
		}
		clock.Advance(2 * time.Minute)
		_, err := store.Create()
		require.NoError(t, err)

		assert.Equal(t, 3, reaper.SweepOnce())
		assert.Equal(t, [2]int{3, 1}, observed)

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &entry))
		assert.Equal(t, "sessions reaped", entry["msg"])
		assert.EqualValues(t, 3, entry["count"])
		assert.EqualValues(t, 1, entry["remaining"])
	})

	t.Run("panic is logged and not propagated", func(t *testing.T) {
		store := session.NewStore()
		out := &syncBuffer{}

		reaper := session.NewReaper(store,
			session.WithReaperLogger(logger.New(logger.WithOutput(out))),
			session.WithObserver(func(int, int) { panic("observer exploded") }),
		)

		assert.NotPanics(t, func() {
			assert.Zero(t, reaper.SweepOnce())
		})
		assert.Contains(t, out.String(), "session sweep failed")
		assert.Contains(t, out.String(), "observer exploded")
	})
}

func TestReaper_Lifecycle(t *testing.T) {
	t.Run("idle session removed after two intervals", func(t *testing.T) {
		clock := newFakeClock()
		store := session.NewStore(session.WithClock(clock))
		var sweeps atomic.Int32

		reaper := session.NewReaper(store,
			session.WithSweepInterval(10*time.Millisecond),
			session.WithIdleTimeout(time.Second),
			session.WithObserver(func(int, int) { sweeps.Add(1) }),
		)

		_, err := store.Create()
		require.NoError(t, err)

		require.NoError(t, reaper.Start(context.Background()))
		defer reaper.Stop()

		clock.Advance(time.Second)
		before := sweeps.Load()
		assert.Eventually(t, func() bool { return sweeps.Load() > before }, time.Second, 5*time.Millisecond)
		assert.Equal(t, 1, store.Len())

		clock.Advance(time.Second)
		assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("active session survives sweeps", func(t *testing.T) {
		clock := newFakeClock()
		store := session.NewStore(session.WithClock(clock))
		var sweeps atomic.Int32

		reaper := session.NewReaper(store,
			session.WithSweepInterval(5*time.Millisecond),
			session.WithIdleTimeout(time.Minute),
			session.WithObserver(func(int, int) { sweeps.Add(1) }),
		)

		token, err := store.Create()
		require.NoError(t, err)
		require.NoError(t, reaper.Start(context.Background()))
		defer reaper.Stop()

		for range 5 {
			clock.Advance(30 * time.Second)
			_, err := store.Resolve(token)
			require.NoError(t, err)
			target := sweeps.Load() + 1
			assert.Eventually(t, func() bool { return sweeps.Load() >= target }, time.Second, time.Millisecond)
		}

		rec, err := store.Resolve(token)
		require.NoError(t, err)
		assert.Equal(t, token, rec.Token)
	})

	t.Run("double start is rejected", func(t *testing.T) {
		reaper := session.NewReaper(session.NewStore())
		require.NoError(t, reaper.Start(context.Background()))
		defer reaper.Stop()

		assert.ErrorIs(t, reaper.Start(context.Background()), session.ErrReaperRunning)
	})

	t.Run("stop performs a final sweep and is idempotent", func(t *testing.T) {
		clock := newFakeClock()
		store := session.NewStore(session.WithClock(clock))

		reaper := session.NewReaper(store,
			session.WithSweepInterval(time.Hour),
			session.WithIdleTimeout(time.Second),
		)

		_, err := store.Create()
		require.NoError(t, err)
		require.NoError(t, reaper.Start(context.Background()))

		clock.Advance(time.Minute)
		reaper.Stop()
		assert.Zero(t, store.Len())

		assert.NotPanics(t, reaper.Stop)
	})

	t.Run("stop without start", func(t *testing.T) {
		reaper := session.NewReaper(session.NewStore())
		assert.NotPanics(t, reaper.Stop)
	})

	t.Run("parent context cancellation ends the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var sweeps atomic.Int32

		reaper := session.NewReaper(session.NewStore(),
			session.WithSweepInterval(time.Hour),
			session.WithObserver(func(int, int) { sweeps.Add(1) }),
		)
		require.NoError(t, reaper.Start(ctx))

		cancel()
		assert.Eventually(t, func() bool { return sweeps.Load() == 1 }, time.Second, 5*time.Millisecond)
		reaper.Stop()
		assert.Equal(t, int32(1), sweeps.Load())
	})
	t.Run("restart after parent context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reaper := session.NewReaper(session.NewStore(), session.WithSweepInterval(time.Hour))
		require.NoError(t, reaper.Start(ctx))

		cancel()
		assert.Eventually(t, func() bool { return !reaper.Running() }, time.Second, 5*time.Millisecond)

		require.NoError(t, reaper.Start(context.Background()))
		assert.True(t, reaper.Running())
		reaper.Stop()
		assert.False(t, reaper.Running())
	})
}

func TestReaper_Healthcheck(t *testing.T) {
	reaper := session.NewReaper(session.NewStore(), session.WithSweepInterval(time.Hour))
	check := reaper.Healthcheck()

	assert.ErrorIs(t, check(context.Background()), session.ErrReaperStopped)

	require.NoError(t, reaper.Start(context.Background()))
	assert.NoError(t, check(context.Background()))

	reaper.Stop()
	assert.ErrorIs(t, check(context.Background()), session.ErrReaperStopped)
}
