package session

import (
	"crypto/rand"
	"io"
	"sync"
	"time"
)

// Store keeps session records in memory, keyed by token.
// All methods are safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	records    map[string]*Record
	clock      Clock
	entropy    io.Reader
	tokenBytes int
}

// NewStore creates an empty in-memory session store
func NewStore(opts ...Option) *Store {
	s := &Store{
		records:    make(map[string]*Record),
		clock:      SystemClock,
		entropy:    rand.Reader,
		tokenBytes: DefaultTokenBytes,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create inserts a fresh anonymous session and returns its token.
func (s *Store) Create() (string, error) {
	rec, err := s.create(s.clock.Now())
	if err != nil {
		return "", err
	}
	return rec.Token, nil
}

// Resolve returns the session for token, creating a new one when the token
// is empty, malformed or unknown. The returned record's LastActive is now.
func (s *Store) Resolve(token string) (Record, error) {
	now := s.clock.Now()

	if wellFormed(token, s.tokenBytes) {
		s.mu.Lock()
		if rec, ok := s.records[token]; ok {
			if now.After(rec.LastActive) {
				rec.LastActive = now
			}
			out := rec.clone()
			s.mu.Unlock()
			return out, nil
		}
		s.mu.Unlock()
	}

	return s.create(now)
}

// Authenticate binds userID to the session and refreshes its activity.
func (s *Store) Authenticate(token string, userID int64) error {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[token]
	if !ok {
		return ErrSessionNotFound
	}

	rec.UserID = &userID
	if now.After(rec.LastActive) {
		rec.LastActive = now
	}
	return nil
}

// Remove deletes the session and reports whether it existed.
func (s *Store) Remove(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[token]; !ok {
		return false
	}
	delete(s.records, token)
	return true
}

// RemoveByUserID deletes every session bound to userID and returns how many were removed.
func (s *Store) RemoveByUserID(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for token, rec := range s.records {
		if rec.UserID != nil && *rec.UserID == userID {
			delete(s.records, token)
			n++
		}
	}
	return n
}

// Sweep removes every session idle for longer than idle and returns the count.
func (s *Store) Sweep(idle time.Duration) int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for token, rec := range s.records {
		if rec.IdleFor(now) > idle {
			delete(s.records, token)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Stats returns memory store statistics
func (s *Store) Stats() (total, authenticated, anonymous int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total = len(s.records)
	for _, rec := range s.records {
		if rec.IsAuthenticated() {
			authenticated++
		} else {
			anonymous++
		}
	}
	return
}

// Clear drops all sessions. Used at shutdown.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.records)
}

func (s *Store) create(now time.Time) (Record, error) {
	for range maxTokenAttempts {
		// Entropy is read outside the lock.
		token, err := generateToken(s.entropy, s.tokenBytes)
		if err != nil {
			return Record{}, err
		}

		s.mu.Lock()
		if _, exists := s.records[token]; exists {
			s.mu.Unlock()
			continue
		}
		rec := &Record{
			Token:      token,
			LastActive: now,
			CreatedAt:  now,
		}
		s.records[token] = rec
		out := rec.clone()
		s.mu.Unlock()

		return out, nil
	}

	return Record{}, ErrTokenGeneration
}
