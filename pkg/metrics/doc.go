// Package metrics exposes Prometheus instrumentation for the HTTP surface and
// the session store.
//
// A Collector owns its own registry so tests and multiple servers never share
// global state. Wire it like this:
//
//	m := metrics.New("cardvault")
//	m.RegisterSessionStats(store.Stats)
//	reaper := session.NewReaper(store, session.WithObserver(m.ObserveSweep))
//	r.Use(m.Middleware)
//	r.Handle("/metrics", m.Handler())
package metrics
