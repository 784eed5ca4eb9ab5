// Package config loads environment-tagged configuration structs.
//
// Every infrastructure package in this module declares its own Config struct
// with `env` tags; this package turns the process environment (plus an
// optional .env file for local development) into populated values:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
//
// Unlike a global registry, Load carries no per-type cache: callers own the
// lifecycle of their configuration values, which keeps tests isolated.
package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Load populates cfg from the process environment. The first call in the
// process also reads a .env file from the working directory if one exists;
// a missing .env file is not an error.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	dotenvOnce.Do(func() {
		// Local development convenience only, so the error is ignored.
		_ = godotenv.Load()
	})

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParseFailed, err)
	}
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](cfg *T) *T {
	if err := Load(cfg); err != nil {
		panic("config: " + err.Error())
	}
	return cfg
}
