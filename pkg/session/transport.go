package session

import "net/http"

// DefaultHeaderName carries session tokens when no other header is configured.
const DefaultHeaderName = "X-Session-Id"

// Transport defines how session tokens are transmitted between client and server
type Transport interface {
	// GetToken extracts the session token from the request
	GetToken(r *http.Request) (string, error)

	// SetToken sends the session token in the response
	SetToken(w http.ResponseWriter, token string)

	// ClearToken removes the session token from the response
	ClearToken(w http.ResponseWriter)
}

var _ Transport = (*HeaderTransport)(nil)
