package handler

import (
	"encoding/json"
	"net/http"
)

// Fields are merged into the top level of the response envelope.
type Fields map[string]any

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

type jsonResponse struct {
	status int
	body   map[string]any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithJSONStatus overrides the HTTP status code.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON renders {"status": true, ...fields}. A "status" entry in fields is ignored.
func JSON(fields Fields, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: make(map[string]any, len(fields)+1)}
	for k, v := range fields {
		r.body[k] = v
	}
	r.body["status"] = true

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders {"status": false, "msg": msg}.
func JSONError(code int, msg string) Response {
	return &jsonResponse{
		status: code,
		body:   map[string]any{"status": false, "msg": msg},
	}
}

// errorResponse defers rendering to the configured ErrorHandler.
type errorResponse struct{ err error }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error returns a Response that hands err to the ErrorHandler.
func Error(err error) Response {
	return errorResponse{err: err}
}
