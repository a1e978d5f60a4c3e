package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const unmatchedRoute = "unmatched"

// Collector groups the application's Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry
	ns       string

	requests *prometheus.HistogramVec
	reaped   prometheus.Counter
	sweeps   prometheus.Counter
}

// New creates a Collector registering Go runtime and process metrics
// alongside the application ones.
func New(namespace string) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		ns:       namespace,
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		reaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "reaped_total",
			Help:      "Sessions removed for inactivity.",
		}),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "sweeps_total",
			Help:      "Completed idle-session sweeps.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests,
		c.reaped,
		c.sweeps,
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RegisterSessionStats exports live session gauges computed by stats at scrape time.
func (c *Collector) RegisterSessionStats(stats func() (total, authenticated, anonymous int)) {
	gauge := func(name, help string, pick func(total, authenticated, anonymous int) int) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: c.ns,
			Subsystem: "session",
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(pick(stats()))
		})
	}

	c.registry.MustRegister(
		gauge("active", "Sessions currently held in the store.", func(t, _, _ int) int { return t }),
		gauge("authenticated", "Sessions bound to a user.", func(_, a, _ int) int { return a }),
		gauge("anonymous", "Sessions not bound to a user.", func(_, _, n int) int { return n }),
	)
}

// ObserveSweep records one sweep. Its signature matches session.WithObserver.
func (c *Collector) ObserveSweep(reaped, _ int) {
	c.sweeps.Inc()
	if reaped > 0 {
		c.reaped.Add(float64(reaped))
	}
}

// Middleware records request latency labelled by the matched chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			c.requests.
				WithLabelValues(r.Method, routePattern(r), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(ww, r)
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unmatchedRoute
}
