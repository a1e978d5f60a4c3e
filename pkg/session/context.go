package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/cardvault/pkg/logger"
)

type sessionContextKey struct{}

// binding is the request-scoped handle on the resolved session. Login and
// Logout may replace the record mid-request; the response header always
// reflects the latest token.
type binding struct {
	mu     sync.Mutex
	store  *Store
	record Record
}

func (b *binding) current() Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.record
}

func (b *binding) token() string {
	return b.current().Token
}

// withBinding adds a session binding to the context
func withBinding(ctx context.Context, b *binding) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, b)
}

func bindingFromContext(ctx context.Context) (*binding, bool) {
	if ctx == nil {
		return nil, false
	}
	b, ok := ctx.Value(sessionContextKey{}).(*binding)
	return b, ok && b != nil
}

// FromContext returns a copy of the session record bound to the request
func FromContext(ctx context.Context) (Record, bool) {
	b, ok := bindingFromContext(ctx)
	if !ok {
		return Record{}, false
	}
	return b.current(), true
}

// MustFromContext retrieves the session record from the context or panics
func MustFromContext(ctx context.Context) Record {
	rec, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return rec
}

// UserID returns the identity bound to the request's session
func UserID(ctx context.Context) (int64, bool) {
	rec, ok := FromContext(ctx)
	if !ok || !rec.IsAuthenticated() {
		return 0, false
	}
	return *rec.UserID, true
}

// IsAuthenticated reports whether the request's session carries an identity.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := UserID(ctx)
	return ok
}

// Token returns the token of the request's session, or "" outside a binding.
func Token(ctx context.Context) string {
	b, ok := bindingFromContext(ctx)
	if !ok {
		return ""
	}
	return b.token()
}

// Login binds userID to the request's session. The token is kept; if the
// session was reaped since the request started, a new one is issued.
func Login(ctx context.Context, userID int64) error {
	b, ok := bindingFromContext(ctx)
	if !ok {
		return ErrNoBinding
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.store.Authenticate(b.record.Token, userID)
	if errors.Is(err, ErrSessionNotFound) {
		rec, rerr := b.store.Resolve("")
		if rerr != nil {
			return rerr
		}
		b.record = rec
		err = b.store.Authenticate(rec.Token, userID)
	}
	if err != nil {
		return err
	}

	id := userID
	b.record.UserID = &id
	return nil
}

// Logout removes the request's session and binds a fresh anonymous one in its place.
func Logout(ctx context.Context) error {
	b, ok := bindingFromContext(ctx)
	if !ok {
		return ErrNoBinding
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.store.Remove(b.record.Token)

	rec, err := b.store.Resolve("")
	if err != nil {
		return err
	}
	b.record = rec
	return nil
}

// LogoutAll removes every session bound to the request's user, then binds a
// fresh anonymous one like Logout. It returns how many sessions were removed.
func LogoutAll(ctx context.Context) (int, error) {
	b, ok := bindingFromContext(ctx)
	if !ok {
		return 0, ErrNoBinding
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	if b.record.UserID != nil {
		n = b.store.RemoveByUserID(*b.record.UserID)
	}
	if b.store.Remove(b.record.Token) {
		n++
	}

	rec, err := b.store.Resolve("")
	if err != nil {
		return n, err
	}
	b.record = rec
	return n, nil
}

// LoggerExtractor adds the authenticated user id to log records emitted with
// a request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := UserID(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.UserID(id), true
	}
}
