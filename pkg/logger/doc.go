// Package logger builds *slog.Logger instances for the service.
//
// New applies functional options on top of production defaults (JSON output,
// INFO level) and wraps the resulting handler in a decorator that pulls
// request-scoped values, such as the request id or the session's user id,
// out of context.Context on every record.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "cardvault"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "user registered", logger.UserID(id))
//
// Attribute helpers (Error, UserID, Component, Count, ...) keep key names
// consistent across packages. Noop returns a logger that discards everything
// and is the default for library components constructed without one.
package logger
