package session

import (
	"net/http"
	"strings"
)

// HeaderTransport implements Transport using HTTP headers
type HeaderTransport struct {
	headerName string
	prefix     string
}

// NewHeaderTransport creates a new header-based transport.
// An empty headerName falls back to DefaultHeaderName.
func NewHeaderTransport(headerName string, opts ...HeaderOption) *HeaderTransport {
	if headerName == "" {
		headerName = DefaultHeaderName
	}

	t := &HeaderTransport{
		headerName: http.CanonicalHeaderKey(headerName),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// HeaderOption is a functional option for HeaderTransport
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix sets a prefix stripped from inbound values, e.g. "Bearer ".
// Outbound values are always written bare.
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) {
		t.prefix = prefix
	}
}

// HeaderName returns the canonical header name.
func (t *HeaderTransport) HeaderName() string {
	return t.headerName
}

// GetToken extracts the session token from the header
func (t *HeaderTransport) GetToken(r *http.Request) (string, error) {
	value := strings.TrimSpace(r.Header.Get(t.headerName))
	if t.prefix != "" {
		value = strings.TrimPrefix(value, t.prefix)
	}
	if value == "" {
		return "", ErrSessionNotFound
	}
	return value, nil
}

// SetToken sends the session token in the response header
func (t *HeaderTransport) SetToken(w http.ResponseWriter, token string) {
	w.Header().Set(t.headerName, token)
}

// ClearToken removes the session token header from the response
func (t *HeaderTransport) ClearToken(w http.ResponseWriter) {
	w.Header().Del(t.headerName)
}
