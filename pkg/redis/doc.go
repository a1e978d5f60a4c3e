// Package redis connects to Redis through go-redis/v9 and exposes a small
// context-aware key/value Storage used for read-through caches.
//
// Connect retries until the server answers PING. Healthcheck plugs the client
// into readiness probes. Config is populated from REDIS_* environment
// variables; an empty REDIS_URL disables Redis.
package redis
