// Package requestid tags every request with a correlation identifier.
//
// Middleware reuses a well-formed inbound X-Request-ID header or generates a
// UUID, stores the value in the request context and echoes it on the response.
// LoggerExtractor plugs the identifier into logger.WithContextExtractors so
// every log line written with the request context carries request_id.
package requestid
