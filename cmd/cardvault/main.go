// Command cardvault serves the accounts and cards JSON API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/cardvault/pkg/clientip"
	"github.com/dmitrymomot/cardvault/pkg/config"
	"github.com/dmitrymomot/cardvault/pkg/logger"
	"github.com/dmitrymomot/cardvault/pkg/requestid"
	"github.com/dmitrymomot/cardvault/pkg/session"
)

func main() {
	var cfg Config
	config.MustLoad(&cfg)

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("cardvault stopped", logger.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			session.LoggerExtractor(),
		),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	return logger.New(opts...)
}
