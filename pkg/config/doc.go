// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// first Load call reads an optional .env file from the working directory,
// then every struct is populated from `env` / `envDefault` field tags.
// Each configuration type is parsed once and cached for the lifetime of the
// process; Reset clears the cache in tests.
//
// # Usage
//
//	type Config struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// ParseEnv populates a struct from an explicit map, bypassing the process
// environment and the cache.
package config
