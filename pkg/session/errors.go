package session

import "errors"

var (
	// ErrUnauthorized indicates the session carries no user identity
	ErrUnauthorized = errors.New("session.unauthorized")

	// ErrSessionNotFound indicates no session was found
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrInvalidConfig indicates a configuration value is out of bounds
	ErrInvalidConfig = errors.New("session.invalid_config")

	// ErrNoBinding indicates the request context has no session binding
	ErrNoBinding = errors.New("session.no_binding")

	// ErrReaperRunning indicates Start was called on a running reaper
	ErrReaperRunning = errors.New("session.reaper_already_running")

	// ErrReaperStopped indicates the sweep loop is not running
	ErrReaperStopped = errors.New("session.reaper_stopped")
)
