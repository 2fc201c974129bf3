package sessions

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/secondbloom/admin-dashboard/apiclient"
	"github.com/secondbloom/admin-dashboard/internal/errors"
)

// TokenRefresher exchanges a refresh token for a new pair
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (apiclient.AuthResponse, error)
}

// Refresher renews access tokens that are about to expire. Concurrent requests
// holding the same refresh token share one backend call.
type Refresher struct {
	client TokenRefresher
	skew   time.Duration
	nowF   func() time.Time
	group  singleflight.Group
}

func NewRefresher(client TokenRefresher, skew time.Duration) *Refresher {
	return &Refresher{
		client: client,
		skew:   skew,
		nowF:   time.Now,
	}
}

// WithNow replaces the clock (used by tests)
func (r *Refresher) WithNow(nowF func() time.Time) *Refresher {
	r.nowF = nowF
	return r
}

// EnsureFresh refreshes the store's tokens when the access token is a JWT that
// expires within the skew. It returns ErrNotAuthenticated once the store has been
// logged out: because it was never authenticated, the backend rejected the refresh
// token, or the refreshed user is no longer an admin. Transport and server failures
// keep the current session.
func (r *Refresher) EnsureFresh(ctx context.Context, store *Store) error {
	if !store.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if !NeedsRefresh(store.AccessToken(), r.nowF(), r.skew) {
		return nil
	}

	refreshToken := store.RefreshToken()
	v, err, _ := r.group.Do(refreshToken, func() (interface{}, error) {
		return r.client.RefreshToken(context.WithoutCancel(ctx), refreshToken)
	})
	if err != nil {
		if !isAuthFailure(err) {
			log.Warn().Err(err).Msg("token refresh failed, keeping current session")
			return nil
		}
		log.Info().Err(err).Msg("refresh token rejected, logging out")
		return r.logout(ctx, store)
	}

	resp := v.(apiclient.AuthResponse)
	if !resp.User.IsAdmin() {
		log.Info().Str("userId", resp.User.ID).Msg("refreshed user is not an admin, logging out")
		return r.logout(ctx, store)
	}
	if resp.AccessToken == "" {
		log.Warn().Msg("token refresh returned no access token, keeping current session")
		return nil
	}
	nextRefresh := resp.RefreshToken
	if nextRefresh == "" {
		nextRefresh = refreshToken
	}
	if err := store.SetAuth(ctx, resp.User, resp.AccessToken, nextRefresh); err != nil {
		log.Err(err).Msg("unable to persist refreshed session")
	}
	return nil
}

func (r *Refresher) logout(ctx context.Context, store *Store) error {
	if err := store.Logout(ctx); err != nil {
		log.Err(err).Msg("unable to clear session")
	}
	return ErrNotAuthenticated
}

// isAuthFailure is true for 4xx responses; transport errors and 5xx are not.
func isAuthFailure(err error) bool {
	if errors.Is(err, errors.ErrTransport) {
		return false
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError
	}
	return false
}
