package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds runtime settings read from the environment. A .env file is
// loaded by main before parsing (local development convenience).
type Env struct {
	ListenAddr    string        `env:"ARENA_ADDR" envDefault:":8080"`
	DBPath        string        `env:"ARENA_DB" envDefault:"./data/arena.db"`
	ConfigPath    string        `env:"ARENA_CONFIG" envDefault:"./arena_config.json"`
	ActionTimeout time.Duration `env:"ARENA_ACTION_TIMEOUT" envDefault:"60s"`
	QueueTTL      time.Duration `env:"ARENA_QUEUE_TTL" envDefault:"5m"`
	SweepInterval time.Duration `env:"ARENA_SWEEP_INTERVAL" envDefault:"5s"`
}

// ParseEnv reads Env from the process environment.
func ParseEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, err
	}
	return &e, nil
}
