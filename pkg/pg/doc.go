// Package pg bootstraps PostgreSQL access on top of pgx/v5.
//
// Connect opens a *pgxpool.Pool with retries, Migrate applies goose
// migrations from an fs.FS (typically an embedded directory), OpenDB exposes
// the pool through database/sql for query builders, and Healthcheck plugs
// into readiness probes. Error helpers classify not-found and constraint
// violations regardless of whether the error came through pgx or
// database/sql.
package pg
