// Package session provides in-memory, header-transported sessions for JSON
// APIs. It issues opaque random tokens, binds them to an optional user
// identity, expires them on inactivity and runs a background reaper that
// sweeps idle sessions concurrently with request handling.
//
// # Architecture
//
// A Store owns the token → Record mapping behind a single mutex. A Binding
// middleware resolves the token carried by every request (creating a fresh
// session for missing, malformed or unknown tokens) and always writes the
// current token back into the response header. A Reaper goroutine removes
// records whose last activity is older than the idle window.
//
//	┌────────┐ X-Session-Id ┌─────────┐  Resolve  ┌───────┐
//	│ Client │ ───────────► │ Binding │ ────────► │ Store │
//	└────────┘ ◄─────────── └─────────┘           └───────┘
//	                                                  ▲
//	                                          Sweep   │
//	                                        ┌────────┐│
//	                                        │ Reaper │┘
//	                                        └────────┘
//
// # Usage
//
//	store := session.NewStore()
//	reaper := session.NewReaper(store, session.WithReaperLogger(log))
//	_ = reaper.Start(ctx)
//	defer reaper.Stop()
//
//	binding := session.NewBinding(store)
//	r := chi.NewRouter()
//	r.Use(binding.Middleware)
//	r.With(session.RequireAuth(nil)).Get("/me", func(w http.ResponseWriter, r *http.Request) {
//	    id, _ := session.UserID(r.Context())
//	    ...
//	})
//
// Handlers assign identity with Login and drop it with Logout. Both operate
// on the binding stored in the request context, so the response header always
// carries the token the client must use next.
//
// # Configuration
//
// Config carries the header name, idle timeout, sweep interval and token
// length. Defaults: "X-Session-Id", 5m, 5m and 64 random bytes (128 hex
// characters). Tokens shorter than 16 bytes are rejected.
//
// # Error Handling
//
//   - ErrUnauthorized     – no identity bound to the session
//   - ErrSessionNotFound  – token is not present in the store
//   - ErrTokenGeneration  – entropy source failed
//   - ErrInvalidConfig    – configuration outside accepted bounds
//
// Unknown or malformed tokens are never reported as errors: they silently
// yield a new session.
package session
