package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/cardvault/handler"
	"github.com/dmitrymomot/cardvault/modules/account"
	"github.com/dmitrymomot/cardvault/pkg/httpserver"
	"github.com/dmitrymomot/cardvault/pkg/logger"
	"github.com/dmitrymomot/cardvault/pkg/metrics"
	"github.com/dmitrymomot/cardvault/pkg/pg"
	"github.com/dmitrymomot/cardvault/pkg/redis"
	"github.com/dmitrymomot/cardvault/pkg/secrets"
	"github.com/dmitrymomot/cardvault/pkg/session"
)

// storage is the account repository together with its probes and cleanup.
type storage struct {
	repo    account.Repository
	checks  []func(context.Context) error
	closers []httpserver.Hook
}

func (s *storage) close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// openStorage selects Postgres when PG_CONN_URL is set and the in-memory
// repository otherwise. A configured Redis wraps either one with the profile cache.
func openStorage(ctx context.Context, cfg Config, log *slog.Logger) (*storage, error) {
	st := &storage{repo: account.NewMemoryRepository()}

	if cfg.Postgres.Enabled() {
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		db := pg.OpenDB(pool)
		st.closers = append(st.closers, func(context.Context) error {
			err := db.Close()
			pool.Close()
			return err
		})

		if err := pg.Migrate(ctx, db, account.Migrations, account.MigrationsDir, cfg.Postgres, log); err != nil {
			return nil, errors.Join(err, st.close(ctx))
		}
		st.repo = account.NewPostgresRepository(db)
		st.checks = append(st.checks, pg.Healthcheck(pool))
		log.InfoContext(ctx, "using postgres storage", logger.Component("storage"))
	} else {
		log.WarnContext(ctx, "PG_CONN_URL is empty, accounts are kept in memory", logger.Component("storage"))
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, errors.Join(err, st.close(ctx))
		}
		cache := redis.NewStorage(client, cfg.Redis.KeyPrefix)
		st.closers = append(st.closers, func(context.Context) error { return cache.Close() })
		st.checks = append(st.checks, redis.Healthcheck(client))
		st.repo = account.NewCachedRepository(st.repo, cache, cfg.ProfileCacheTTL, log)
		log.InfoContext(ctx, "profile cache enabled", logger.Component("storage"))
	}

	return st, nil
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	providers, err := account.LoadProvidersFile(cfg.CardProvidersFile)
	if err != nil {
		return fmt.Errorf("loading card providers: %w", err)
	}

	serviceOpts := []account.ServiceOption{
		account.WithBcryptCost(cfg.BcryptCost),
		account.WithProviders(providers),
		account.WithServiceLogger(log),
	}
	if cfg.CardEncryptionKey != "" {
		key, err := secrets.ParseKey(cfg.CardEncryptionKey)
		if err != nil {
			return fmt.Errorf("parsing CARD_ENCRYPTION_KEY: %w", err)
		}
		cipher, err := secrets.NewCipher(key)
		if err != nil {
			return err
		}
		serviceOpts = append(serviceOpts, account.WithCardCipher(cipher))
	} else {
		log.WarnContext(ctx, "CARD_ENCRYPTION_KEY is empty, card numbers are stored unencrypted", logger.Component("account"))
	}

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	collector := metrics.New("cardvault")
	eh := handler.NewErrorHandler(log)

	store, reaper, binding, err := session.NewFromConfig(cfg.Session,
		nil,
		[]session.ReaperOption{
			session.WithReaperLogger(log),
			session.WithObserver(collector.ObserveSweep),
		},
		session.WithBindingLogger(log),
		session.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			eh(handler.NewContext(w, r), err)
		}),
	)
	if err != nil {
		return errors.Join(err, st.close(ctx))
	}
	collector.RegisterSessionStats(store.Stats)

	svc := account.NewService(st.repo, serviceOpts...)

	router := newRouter(routerDeps{
		log:           log,
		errorHandler:  eh,
		binding:       binding,
		sessionHeader: cfg.Session.HeaderName,
		metrics:       collector,
		accounts:      account.NewHTTPHandler(svc, eh),
		corsOrigins:   cfg.CORSAllowedOrigins,
		proxyHeaders:  cfg.TrustedProxyHeaders,
		readiness:     append([]func(context.Context) error{reaper.Healthcheck()}, st.checks...),
	})

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(reaper.Start),
		httpserver.WithStopHook(st.close),
		httpserver.WithStopHook(func(context.Context) error {
			reaper.Stop()
			store.Clear()
			return nil
		}),
	)

	return srv.Run(ctx, router)
}
