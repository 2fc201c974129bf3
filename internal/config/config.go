package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Session
}

// New loads an optional .env file, then parses the environment into a Config.
func New() (Config, error) {
	_ = godotenv.Load() // missing .env is fine outside development

	var vars EnvVars
	if err := env.Parse(&vars); err != nil {
		return nil, fmt.Errorf("[config New] parse env: %w", err)
	}
	if err := vars.validate(); err != nil {
		return nil, fmt.Errorf("[config New] %w", err)
	}

	return FromEnvVars(vars), nil
}

// FromEnvVars builds a Config from already parsed variables without validating them.
func FromEnvVars(vars EnvVars) Config {
	return mainConfig{
		EnvVars: vars,
		Cors:    NewCors(vars.AllowedOrigins),
		Session: Session{refreshSkew: vars.RefreshSkew},
	}
}
