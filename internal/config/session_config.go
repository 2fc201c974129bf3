package config

import "time"

type SessionConfig interface {
	GetAccessTokenCookieMaxAge() time.Duration
	GetRefreshTokenCookieMaxAge() time.Duration
	GetStoreKeyCookieMaxAge() time.Duration
	GetLoginFlowTTL() time.Duration
	GetRefreshSkew() time.Duration
}

type StorageConfig interface {
	GetStorageDriver() string
	GetSQLitePath() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetPostgresDSN() string
}

// Session holds the cookie and login-flow policy. Cookie lifetimes are fixed.
type Session struct {
	refreshSkew time.Duration
}

var _ SessionConfig = Session{}

func (Session) GetAccessTokenCookieMaxAge() time.Duration {
	return 24 * time.Hour
}

func (Session) GetRefreshTokenCookieMaxAge() time.Duration {
	return 7 * 24 * time.Hour
}

// GetStoreKeyCookieMaxAge matches the refresh token so the store outlives the access cookie.
func (Session) GetStoreKeyCookieMaxAge() time.Duration {
	return 7 * 24 * time.Hour
}

func (Session) GetLoginFlowTTL() time.Duration {
	return 15 * time.Minute
}

func (s Session) GetRefreshSkew() time.Duration {
	if s.refreshSkew < 0 {
		return 0
	}
	return s.refreshSkew
}
