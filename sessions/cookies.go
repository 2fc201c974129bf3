package sessions

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	StoreKeyCookie     = "auth-storage"
)

// CookiePolicy holds the fixed cookie lifetimes
type CookiePolicy struct {
	AccessTokenMaxAge  time.Duration
	RefreshTokenMaxAge time.Duration
	StoreKeyMaxAge     time.Duration
}

// DefaultCookiePolicy is one day for the access token and seven for the refresh token and store key.
var DefaultCookiePolicy = CookiePolicy{
	AccessTokenMaxAge:  24 * time.Hour,
	RefreshTokenMaxAge: 7 * 24 * time.Hour,
	StoreKeyMaxAge:     7 * 24 * time.Hour,
}

// CookieSink mirrors the token pair into the accessToken and refreshToken cookies.
// The request-time gate only looks at these cookies.
type CookieSink struct {
	W      http.ResponseWriter
	Secure bool
	Policy CookiePolicy
}

var _ Sink = CookieSink{}

func (c CookieSink) Save(_ context.Context, s Session) error {
	if !s.Authenticated {
		return c.Clear(context.Background())
	}
	setCookie(c.W, AccessTokenCookie, s.AccessToken, c.Policy.AccessTokenMaxAge, c.Secure)
	setCookie(c.W, RefreshTokenCookie, s.RefreshToken, c.Policy.RefreshTokenMaxAge, c.Secure)
	return nil
}

func (c CookieSink) Clear(context.Context) error {
	clearCookie(c.W, AccessTokenCookie, c.Secure)
	clearCookie(c.W, RefreshTokenCookie, c.Secure)
	return nil
}

// StoreKeyCookieSink keeps the auth-storage cookie alive while a session exists
// and removes it on logout.
type StoreKeyCookieSink struct {
	W      http.ResponseWriter
	Key    string
	Secure bool
	MaxAge time.Duration
}

var _ Sink = StoreKeyCookieSink{}

func (c StoreKeyCookieSink) Save(_ context.Context, s Session) error {
	if !s.Authenticated {
		return c.Clear(context.Background())
	}
	setCookie(c.W, StoreKeyCookie, c.Key, c.MaxAge, c.Secure)
	return nil
}

func (c StoreKeyCookieSink) Clear(context.Context) error {
	clearCookie(c.W, StoreKeyCookie, c.Secure)
	return nil
}

// HasAccessToken reports whether the request carries a non-empty accessToken cookie.
// Presence only, the value is never validated.
func HasAccessToken(r *http.Request) bool {
	return cookieValue(r, AccessTokenCookie) != ""
}

// IsSecureRequest reports whether the request arrived over HTTPS, directly or via a proxy.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
