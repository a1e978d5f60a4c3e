// Package clientip resolves the originating client address of a request
// served behind reverse proxies and exposes it to handlers and log records.
//
// Forwarding headers are trusted in the order they were configured; the TCP
// peer address is the fallback. Only headers set by infrastructure you control
// should be listed, since clients can forge any of them.
//
//	r.Use(clientip.Middleware(clientip.WithHeaders("X-Forwarded-For")))
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
package clientip
