// Package account implements users and their payment cards: registration,
// login and logout against the session binding, profile lookup, account
// deletion and card management.
//
// Storage sits behind Repository. MemoryRepository serves tests and
// single-process runs; PostgresRepository persists to Postgres through
// squirrel-built queries; CachedRepository adds a Redis read-through cache for
// profile lookups. Service holds the business rules and HTTPHandler exposes
// them as JSON endpoints:
//
//	GET    /check
//	POST   /users
//	POST   /login
//	POST   /logout
//	GET    /users/{id}
//	DELETE /users/{id}
//	GET    /users/{id}/cards
//	POST   /users/{id}/cards
//	GET    /users/{id}/cards/{card_id}
package account
