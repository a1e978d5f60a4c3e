package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cardvault/binder"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func jsonRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/", nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestBindJSON(t *testing.T) {
	bind := binder.BindJSON()

	tests := []struct {
		name        string
		body        string
		contentType string
		want        credentials
		wantErr     error
	}{
		{name: "valid", body: `{"email":"a@b.co","password":"x"}`, contentType: "application/json", want: credentials{"a@b.co", "x"}},
		{name: "charset parameter", body: `{"email":"a@b.co"}`, contentType: "application/json; charset=utf-8", want: credentials{Email: "a@b.co"}},
		{name: "missing content type", body: `{"password":"x"}`, want: credentials{Password: "x"}},
		{name: "unknown fields ignored", body: `{"email":"a@b.co","extra":1}`, contentType: "application/json", want: credentials{Email: "a@b.co"}},
		{name: "empty body", contentType: "application/json"},
		{name: "wrong media type", body: `email=a`, contentType: "application/x-www-form-urlencoded", wantErr: binder.ErrUnsupportedMediaType},
		{name: "malformed", body: `{"email":`, contentType: "application/json", wantErr: binder.ErrInvalidJSON},
		{name: "type mismatch", body: `{"email":5}`, contentType: "application/json", wantErr: binder.ErrInvalidJSON},
		{name: "trailing data", body: `{"email":"a"}{}`, contentType: "application/json", wantErr: binder.ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got credentials
			err := bind(jsonRequest(tt.body, tt.contentType), &got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type cardPath struct {
	UserID int64  `path:"id"`
	CardID uint32 `path:"card_id"`
	Ignore string
}

func TestPath(t *testing.T) {
	t.Run("binds chi params", func(t *testing.T) {
		var got cardPath
		var bindErr error

		r := chi.NewRouter()
		r.Get("/users/{id}/cards/{card_id}", func(w http.ResponseWriter, req *http.Request) {
			bindErr = binder.Path(chi.URLParam)(req, &got)
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/12/cards/7", nil))

		require.NoError(t, bindErr)
		assert.Equal(t, cardPath{UserID: 12, CardID: 7}, got)
	})

	t.Run("invalid integer", func(t *testing.T) {
		extract := func(*http.Request, string) string { return "abc" }
		var got cardPath
		err := binder.Path(extract)(httptest.NewRequest(http.MethodGet, "/", nil), &got)
		assert.ErrorIs(t, err, binder.ErrInvalidPath)
	})

	t.Run("rejects bad targets", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.ErrorIs(t, binder.Path(nil)(req, &cardPath{}), binder.ErrInvalidPath)
		assert.ErrorIs(t, binder.Path(chi.URLParam)(req, cardPath{}), binder.ErrInvalidPath)
		var s string
		assert.ErrorIs(t, binder.Path(chi.URLParam)(req, &s), binder.ErrInvalidPath)
	})
}
