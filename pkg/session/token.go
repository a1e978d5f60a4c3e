package session

import (
	"encoding/hex"
	"errors"
	"io"
)

const (
	// DefaultTokenBytes yields 128 hex characters per token.
	DefaultTokenBytes = 64
	// MinTokenBytes keeps at least 128 bits of entropy.
	MinTokenBytes = 16

	maxTokenAttempts = 3
)

// generateToken reads n bytes from src and hex-encodes them.
func generateToken(src io.Reader, n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(src, b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return hex.EncodeToString(b), nil
}

// wellFormed reports whether token could have been produced by generateToken(_, n).
func wellFormed(token string, n int) bool {
	if len(token) != n*2 {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
