package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// EnvVars is populated from the environment by caarlos0/env.
type EnvVars struct {
	Port       string        `env:"PORT" envDefault:"8080"`
	AppName    string        `env:"APP_NAME" envDefault:"Second Bloom Admin"`
	Env        string        `env:"ENV" envDefault:"DEV"`
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:3000/api/v1"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"./data/sessions.db"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	PostgresDSN   string `env:"DATABASE_URL"`

	RefreshSkew    time.Duration `env:"TOKEN_REFRESH_SKEW" envDefault:"30s"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
}

var _ EnvConfig = EnvVars{}
var _ StorageConfig = EnvVars{}

func (e EnvVars) validate() error {
	switch e.StorageDriver {
	case StorageMemory, StorageSQLite, StorageRedis:
	case StoragePostgres:
		if e.PostgresDSN == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", e.StorageDriver)
	}
	if e.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL must be set")
	}
	return nil
}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

// GetAPIBaseURL returns the marketplace REST API base (e.g. "https://api.example.com/api/v1")
// without a trailing slash.
func (e EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(e.APIBaseURL, "/")
}

func (e EnvVars) GetAPITimeout() time.Duration {
	return e.APITimeout
}

func (e EnvVars) GetStorageDriver() string {
	return e.StorageDriver
}

func (e EnvVars) GetSQLitePath() string {
	return e.SQLitePath
}

func (e EnvVars) GetRedisAddr() string {
	return e.RedisAddr
}

func (e EnvVars) GetRedisPassword() string {
	return e.RedisPassword
}

func (e EnvVars) GetRedisDB() int {
	return e.RedisDB
}

func (e EnvVars) GetPostgresDSN() string {
	return e.PostgresDSN
}
