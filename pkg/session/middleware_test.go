package session_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cardvault/pkg/session"
)

func serve(h http.Handler, method, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	if token != "" {
		req.Header.Set(session.DefaultHeaderName, token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBinding_Middleware(t *testing.T) {
	t.Run("issues a token on first contact", func(t *testing.T) {
		store := session.NewStore()
		binding := session.NewBinding(store)

		var seen session.Record
		h := binding.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = session.MustFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := serve(h, http.MethodGet, "")
		token := rec.Header().Get(session.DefaultHeaderName)
		assert.Len(t, token, 128)
		assert.Equal(t, token, seen.Token)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("reuses a known token", func(t *testing.T) {
		store := session.NewStore()
		binding := session.NewBinding(store)
		token, err := store.Create()
		require.NoError(t, err)

		h := binding.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		rec := serve(h, http.MethodGet, token)
		assert.Equal(t, token, rec.Header().Get(session.DefaultHeaderName))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("header set when handler writes nothing", func(t *testing.T) {
		binding := session.NewBinding(session.NewStore())
		h := binding.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		rec := serve(h, http.MethodGet, "")
		assert.NotEmpty(t, rec.Header().Get(session.DefaultHeaderName))
	})

	t.Run("header set on error responses", func(t *testing.T) {
		binding := session.NewBinding(session.NewStore())
		h := binding.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		rec := serve(h, http.MethodPost, "garbage")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(session.DefaultHeaderName))
		assert.NotEqual(t, "garbage", rec.Header().Get(session.DefaultHeaderName))
	})

	t.Run("header set when an outer recoverer writes the response", func(t *testing.T) {
		binding := session.NewBinding(session.NewStore())
		inner := binding.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("handler failure")
		}))
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recover() != nil {
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			inner.ServeHTTP(w, r)
		})

		rec := serve(h, http.MethodGet, "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(session.DefaultHeaderName))
	})

	t.Run("options requests skip the header", func(t *testing.T) {
		binding := session.NewBinding(session.NewStore())
		var bound bool
		h := binding.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, bound = session.FromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := serve(h, http.MethodOptions, "")
		assert.True(t, bound)
		assert.Empty(t, rec.Header().Get(session.DefaultHeaderName))
	})

	t.Run("custom header with prefix", func(t *testing.T) {
		store := session.NewStore()
		token, err := store.Create()
		require.NoError(t, err)

		binding := session.NewBinding(store, session.WithTransport(
			session.NewHeaderTransport("Authorization", session.WithHeaderPrefix("Bearer ")),
		))
		h := binding.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, token, rec.Header().Get("Authorization"))
	})

	t.Run("resolve failure uses error handler", func(t *testing.T) {
		store := session.NewStore(session.WithEntropy(failingReader{err: errors.New("no entropy")}))
		var handled error
		binding := session.NewBinding(store, session.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
			handled = err
			w.WriteHeader(http.StatusServiceUnavailable)
		}))

		called := false
		h := binding.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

		rec := serve(h, http.MethodGet, "")
		assert.False(t, called)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.ErrorIs(t, handled, session.ErrTokenGeneration)
	})
}

func TestBinding_LoginLogout(t *testing.T) {
	store := session.NewStore()
	binding := session.NewBinding(store)

	login := binding.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, session.Login(r.Context(), 42))
		id, ok := session.UserID(r.Context())
		assert.True(t, ok)
		assert.Equal(t, int64(42), id)
		w.WriteHeader(http.StatusOK)
	}))
	logout := binding.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, session.Logout(r.Context()))
		assert.False(t, session.IsAuthenticated(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))
	whoami := binding.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := session.UserID(r.Context()); ok && id == 42 {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))

	token := serve(login, http.MethodPost, "").Header().Get(session.DefaultHeaderName)
	require.NotEmpty(t, token)

	rec := serve(whoami, http.MethodGet, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, token, rec.Header().Get(session.DefaultHeaderName))

	rec = serve(logout, http.MethodPost, token)
	rotated := rec.Header().Get(session.DefaultHeaderName)
	assert.NotEmpty(t, rotated)
	assert.NotEqual(t, token, rotated)

	rec = serve(whoami, http.MethodGet, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEqual(t, token, rec.Header().Get(session.DefaultHeaderName))
}

func TestLogin_ReapedMidRequest(t *testing.T) {
	store := session.NewStore()
	binding := session.NewBinding(store)

	var original string
	h := binding.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		original = session.Token(r.Context())
		store.Remove(original)
		require.NoError(t, session.Login(r.Context(), 9))
		w.WriteHeader(http.StatusOK)
	}))

	rec := serve(h, http.MethodPost, "")
	issued := rec.Header().Get(session.DefaultHeaderName)
	assert.NotEqual(t, original, issued)

	stored, err := store.Resolve(issued)
	require.NoError(t, err)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, int64(9), *stored.UserID)
}

func TestContextHelpers_NoBinding(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := req.Context()

	_, ok := session.FromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, session.Token(ctx))
	assert.False(t, session.IsAuthenticated(ctx))
	assert.ErrorIs(t, session.Login(ctx, 1), session.ErrNoBinding)
	assert.ErrorIs(t, session.Logout(ctx), session.ErrNoBinding)
	assert.Panics(t, func() { session.MustFromContext(ctx) })
}

func TestRequireAuth(t *testing.T) {
	store := session.NewStore()
	binding := session.NewBinding(store)

	protected := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("default rejection", func(t *testing.T) {
		h := binding.Middleware(session.RequireAuth(nil)(protected))
		rec := serve(h, http.MethodGet, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(session.DefaultHeaderName))
	})

	t.Run("custom rejection", func(t *testing.T) {
		reject := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		h := binding.Middleware(session.RequireAuth(reject)(protected))
		rec := serve(h, http.MethodGet, "")
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("authenticated passes", func(t *testing.T) {
		token, err := store.Create()
		require.NoError(t, err)
		require.NoError(t, store.Authenticate(token, 3))

		h := binding.Middleware(session.RequireAuth(nil)(protected))
		rec := serve(h, http.MethodGet, token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLoggerExtractor(t *testing.T) {
	extract := session.LoggerExtractor()

	_, ok := extract(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)

	store := session.NewStore()
	token, err := store.Create()
	require.NoError(t, err)
	require.NoError(t, store.Authenticate(token, 12))

	var attrOK bool
	var value int64
	h := session.NewBinding(store).Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		attr, ok := extract(r.Context())
		attrOK, value = ok, attr.Value.Int64()
	}))
	serve(h, http.MethodGet, token)

	assert.True(t, attrOK)
	assert.Equal(t, int64(12), value)
}

func TestLogoutAll(t *testing.T) {
	store := session.NewStore()
	binding := session.NewBinding(store)

	other, err := store.Create()
	require.NoError(t, err)
	require.NoError(t, store.Authenticate(other, 5))
	bystander, err := store.Create()
	require.NoError(t, err)
	require.NoError(t, store.Authenticate(bystander, 6))

	current, err := store.Create()
	require.NoError(t, err)
	require.NoError(t, store.Authenticate(current, 5))

	var removed int
	h := binding.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		removed, err = session.LogoutAll(r.Context())
		assert.False(t, session.IsAuthenticated(r.Context()))
	}))

	rec := serve(h, http.MethodDelete, current)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.NotEqual(t, current, rec.Header().Get(session.DefaultHeaderName))

	// bystander plus the fresh anonymous session
	assert.Equal(t, 2, store.Len())
	stored, err := store.Resolve(bystander)
	require.NoError(t, err)
	assert.True(t, stored.IsAuthenticated())

	_, err = session.LogoutAll(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.ErrorIs(t, err, session.ErrNoBinding)
}
