package account_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cardvault/modules/account"
)

func TestDefaultProviders(t *testing.T) {
	p := account.DefaultProviders()
	assert.Len(t, p.Names(), 10)

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Visa", "Visa", true},
		{"  visa ", "Visa", true},
		{"AMERICAN EXPRESS", "American Express", true},
		{"wells fargo", "Wells Fargo", true},
		{"u.s. bank", "U.S. Bank", true},
		{"Diners", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := p.Canonical(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadProviders(t *testing.T) {
	t.Run("custom catalog deduplicates", func(t *testing.T) {
		p, err := account.LoadProviders(strings.NewReader("providers:\n  - Monzo\n  - monzo\n  - ' '\n  - Revolut\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Monzo", "Revolut"}, p.Names())
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, err := account.LoadProviders(strings.NewReader("providers: []\n"))
		assert.ErrorIs(t, err, account.ErrInvalidProviders)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := account.LoadProviders(strings.NewReader("providers: [unterminated"))
		assert.ErrorIs(t, err, account.ErrInvalidProviders)
	})

	t.Run("file path", func(t *testing.T) {
		p, err := account.LoadProvidersFile("")
		require.NoError(t, err)
		assert.Len(t, p.Names(), 10)

		_, err = account.LoadProvidersFile("/does/not/exist.yaml")
		assert.ErrorIs(t, err, account.ErrInvalidProviders)
	})
}
