package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/cardvault/handler"
	"github.com/dmitrymomot/cardvault/modules/account"
	"github.com/dmitrymomot/cardvault/pkg/clientip"
	"github.com/dmitrymomot/cardvault/pkg/httpserver"
	"github.com/dmitrymomot/cardvault/pkg/logger"
	"github.com/dmitrymomot/cardvault/pkg/metrics"
	"github.com/dmitrymomot/cardvault/pkg/requestid"
	"github.com/dmitrymomot/cardvault/pkg/session"
)

type routerDeps struct {
	log           *slog.Logger
	errorHandler  handler.ErrorHandler
	binding       *session.Binding
	sessionHeader string
	metrics       *metrics.Collector
	accounts      *account.HTTPHandler
	corsOrigins   []string
	proxyHeaders  []string
	readiness     []func(context.Context) error
}

// newRouter serves probes and /metrics without a session; everything else
// runs behind CORS, instrumentation and the session binding.
func newRouter(d routerDeps) http.Handler {
	notFound := handler.ErrorHandlerFunc(d.errorHandler, handler.ErrNotFound)
	notAllowed := handler.ErrorHandlerFunc(d.errorHandler, handler.ErrMethodNotAllowed)

	api := chi.NewRouter()
	api.Use(
		cors.Handler(cors.Options{
			AllowedOrigins: d.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", d.sessionHeader, requestid.Header},
			ExposedHeaders: []string{d.sessionHeader, requestid.Header},
			MaxAge:         300,
		}),
		d.metrics.Middleware,
		d.binding.Middleware,
	)
	api.NotFound(notFound)
	api.MethodNotAllowed(notAllowed)
	d.accounts.Routes(api)

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware(),
		clientip.Middleware(clientip.WithHeaders(d.proxyHeaders...)),
		requestLogger(d.log),
		middleware.Recoverer,
	)
	r.NotFound(notFound)
	r.MethodNotAllowed(notAllowed)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(d.log, d.readiness...))
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())
	r.Mount("/", api)

	return r
}

// requestLogger writes one record per request once the response is complete.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				level := slog.LevelInfo
				if status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				log.LogAttrs(r.Context(), level, "http request",
					logger.HTTPRequest(r.Method, r.URL.Path, status, time.Since(start)),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
