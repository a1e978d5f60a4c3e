package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/cardvault/binder"
	"github.com/dmitrymomot/cardvault/pkg/logger"
	"github.com/dmitrymomot/cardvault/pkg/validator"
)

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	StatusCode int
	Message    string
	LogLevel   slog.Level
}

// Classify maps err to a status code and client message.
func Classify(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: ErrInternalServerError.Code,
		Message:    ErrInternalServerError.Key,
	}

	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Key
	case validator.IsValidationError(err):
		info.StatusCode = http.StatusUnprocessableEntity
		info.Message = validator.ExtractValidationErrors(err).First().Message
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		info.StatusCode = ErrUnsupportedMediaType.Code
		info.Message = ErrUnsupportedMediaType.Key
	case errors.Is(err, binder.ErrInvalidJSON):
		info.StatusCode = http.StatusBadRequest
		info.Message = binder.ErrInvalidJSON.Error()
	case errors.Is(err, binder.ErrInvalidPath):
		info.StatusCode = ErrNotFound.Code
		info.Message = ErrNotFound.Key
	}

	info.LogLevel = slog.LevelDebug
	if info.StatusCode >= http.StatusInternalServerError {
		info.LogLevel = slog.LevelError
	}
	return info
}

// NewErrorHandler returns an ErrorHandler that logs through log and renders
// the JSON error envelope.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = logger.Noop()
	}

	return func(ctx Context, err error) {
		info := Classify(err)
		r := ctx.Request()

		log.LogAttrs(ctx, info.LogLevel, "request error",
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if rerr := JSONError(info.StatusCode, info.Message).Render(ctx.ResponseWriter(), r); rerr != nil {
			log.LogAttrs(ctx, slog.LevelError, "error response write failed", logger.Error(rerr))
		}
	}
}
