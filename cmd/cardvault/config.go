package main

import (
	"time"

	"github.com/dmitrymomot/cardvault/pkg/httpserver"
	"github.com/dmitrymomot/cardvault/pkg/pg"
	"github.com/dmitrymomot/cardvault/pkg/redis"
	"github.com/dmitrymomot/cardvault/pkg/session"
)

// Config is the process configuration, read from the environment and an optional .env file.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"cardvault"`
	LogLevel string `env:"LOG_LEVEL"` // overrides the environment default when set

	CORSAllowedOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	TrustedProxyHeaders []string `env:"TRUSTED_PROXY_HEADERS" envDefault:"X-Forwarded-For,X-Real-IP" envSeparator:","`

	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"10"`
	CardProvidersFile string        `env:"CARD_PROVIDERS_FILE"` // empty uses the built-in catalog
	ProfileCacheTTL   time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"5m"`
	CardEncryptionKey string        `env:"CARD_ENCRYPTION_KEY"` // 32 bytes, hex or base64; empty stores numbers unencrypted

	HTTP     httpserver.Config
	Session  session.Config
	Postgres pg.Config
	Redis    redis.Config
}
