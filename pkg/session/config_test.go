package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cardvault/pkg/session"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*session.Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*session.Config) {}},
		{name: "empty header", mutate: func(c *session.Config) { c.HeaderName = "" }, wantErr: true},
		{name: "zero idle timeout", mutate: func(c *session.Config) { c.IdleTimeout = 0 }, wantErr: true},
		{name: "negative sweep interval", mutate: func(c *session.Config) { c.SweepInterval = -time.Second }, wantErr: true},
		{name: "short tokens", mutate: func(c *session.Config) { c.TokenBytes = 8 }, wantErr: true},
		{name: "minimum tokens", mutate: func(c *session.Config) { c.TokenBytes = session.MinTokenBytes }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := session.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, session.ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Run("wires components", func(t *testing.T) {
		cfg := session.DefaultConfig()
		cfg.HeaderName = "X-Token"
		cfg.TokenBytes = 20

		store, reaper, binding, err := session.NewFromConfig(cfg, nil, nil)
		require.NoError(t, err)
		require.NotNil(t, reaper)
		require.NotNil(t, binding)

		token, err := store.Create()
		require.NoError(t, err)
		assert.Len(t, token, 40)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := session.DefaultConfig()
		cfg.TokenBytes = 1

		_, _, _, err := session.NewFromConfig(cfg, nil, nil)
		assert.ErrorIs(t, err, session.ErrInvalidConfig)
	})

	t.Run("default values", func(t *testing.T) {
		cfg := session.DefaultConfig()
		assert.Equal(t, "X-Session-Id", cfg.HeaderName)
		assert.Equal(t, 5*time.Minute, cfg.IdleTimeout)
		assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
		assert.Equal(t, 64, cfg.TokenBytes)
	})
}
