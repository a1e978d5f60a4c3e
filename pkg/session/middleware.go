package session

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/cardvault/pkg/logger"
)

// Binding attaches a session to every request and echoes its token back.
type Binding struct {
	store        *Store
	transport    Transport
	log          *slog.Logger
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// NewBinding creates the request binding for store
func NewBinding(store *Store, opts ...BindingOption) *Binding {
	b := &Binding{
		store:     store,
		transport: NewHeaderTransport(DefaultHeaderName),
		log:       logger.Noop(),
		errorHandler: func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, "Session error", http.StatusInternalServerError)
		},
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Middleware resolves the request's session before next runs and writes the
// session token into every response, error responses included. Preflight
// OPTIONS requests are resolved but do not receive the header.
func (b *Binding) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := b.transport.GetToken(r)

		rec, err := b.store.Resolve(token)
		if err != nil {
			b.log.ErrorContext(r.Context(), "failed to resolve session",
				logger.Component("session.binding"),
				logger.Error(err),
			)
			b.errorHandler(w, r, err)
			return
		}

		bound := &binding{store: b.store, record: rec}

		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r.WithContext(withBinding(r.Context(), bound)))
			return
		}

		// Set eagerly so responses written on the raw writer (e.g. by an
		// outer recoverer) still carry a token.
		b.transport.SetToken(w, rec.Token)

		tw := &tokenWriter{ResponseWriter: w, binding: bound, transport: b.transport}
		next.ServeHTTP(tw, r.WithContext(withBinding(r.Context(), bound)))
		tw.syncToken()
	})
}

// RequireAuth rejects requests whose session carries no identity.
// A nil onUnauthorized responds with a plain 401.
func RequireAuth(onUnauthorized http.Handler) func(http.Handler) http.Handler {
	if onUnauthorized == nil {
		onUnauthorized = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAuthenticated(r.Context()) {
				onUnauthorized.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokenWriter rewrites the session header right before the status line is
// sent, picking up tokens rotated by Login or Logout.
type tokenWriter struct {
	http.ResponseWriter
	binding     *binding
	transport   Transport
	wroteHeader bool
}

func (w *tokenWriter) syncToken() {
	if w.wroteHeader {
		return
	}
	w.transport.SetToken(w.ResponseWriter, w.binding.token())
}

func (w *tokenWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.syncToken()
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *tokenWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(p)
}

func (w *tokenWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *tokenWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
