// Package httpserver runs an http.Handler with graceful shutdown.
//
// Server.Run listens on the configured address and blocks until the context
// is cancelled, SIGINT/SIGTERM arrives or the listener fails. Shutdown then
// drains in-flight requests within the shutdown timeout and runs the stop
// hooks, which is where background workers (such as the session reaper) are
// stopped and pools closed.
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithStartHook(func(ctx context.Context) error { return reaper.Start(ctx) }),
//	    httpserver.WithStopHook(func(context.Context) error { reaper.Stop(); return nil }),
//	)
//	if err := srv.Run(ctx, router); err != nil { ... }
//
// LivenessHandler and ReadinessHandler serve the health probes.
package httpserver
