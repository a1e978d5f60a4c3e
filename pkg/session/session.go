package session

import "time"

// Record is the server-side state bound to a session token.
type Record struct {
	Token      string    `json:"-"`
	UserID     *int64    `json:"user_id,omitempty"`
	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsAuthenticated returns true if the record has a user ID
func (r Record) IsAuthenticated() bool {
	return r.UserID != nil
}

// IdleFor reports how long the record has been inactive at now.
func (r Record) IdleFor(now time.Time) time.Duration {
	return now.Sub(r.LastActive)
}

// clone returns a copy that shares no memory with r.
func (r *Record) clone() Record {
	out := *r
	if r.UserID != nil {
		id := *r.UserID
		out.UserID = &id
	}
	return out
}
