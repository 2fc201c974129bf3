package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/secondbloom/admin-dashboard/sessions"
)

const msgSessionExpired = "Your session has expired, please sign in again"

// gateApplies reports whether the request-time gate checks path. Only the
// protected prefix is gated; login, root, static assets and the API proxy never are.
func gateApplies(path string) bool {
	switch {
	case path == RouteIndex,
		path == RouteLogin,
		strings.HasPrefix(path, RouteLogin+"/"),
		strings.HasPrefix(path, RouteStaticPrefix),
		strings.HasPrefix(path, RouteAPIPrefix):
		return false
	}
	return path == RouteDashboard || strings.HasPrefix(path, RouteDashboard+"/")
}

// RequestGate redirects requests for protected paths that carry no accessToken
// cookie before they reach any handler. It only checks presence.
func (s *Server) RequestGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gateApplies(r.URL.Path) && !sessions.HasAccessToken(r) {
			redirectSuccess(w, r, RouteLogin)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession is the render-time gate for protected views. The view only runs,
// and so writes nothing, once the request's store is known to be authenticated.
// Tokens close to expiry are refreshed here.
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := s.sessions.Open(w, r)

		if !store.IsAuthenticated() {
			if sessions.HasAccessToken(r) {
				// cookies outlived the stored session (logout elsewhere, expired entry)
				if err := store.Logout(r.Context()); err != nil {
					log.Err(err).Msg("unable to clear stale session cookies")
				}
			}
			redirectSuccess(w, r, RouteLogin)
			return
		}

		if err := s.refresher.EnsureFresh(r.Context(), store); err != nil {
			redirectWithError(w, r, RouteLogin, msgSessionExpired)
			return
		}

		next(w, r.WithContext(sessions.WithStore(r.Context(), store)))
	}
}

// openSession opens the request's store for pages outside the protected prefix. A
// store still authenticated after its accessToken cookie expired gets its cookies
// written again, otherwise the request-time gate and this page would redirect to each
// other forever. If that fails the session is ended instead.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) *sessions.Store {
	store := s.sessions.Open(w, r)
	if !store.IsAuthenticated() || sessions.HasAccessToken(r) {
		return store
	}
	if err := store.Resync(r.Context()); err != nil {
		log.Err(err).Msg("unable to restore session cookies")
		if err := store.Logout(r.Context()); err != nil {
			log.Err(err).Msg("unable to clear session")
		}
	}
	return store
}

// storeFromRequest returns the store put in the context by RequireSession
func storeFromRequest(r *http.Request) *sessions.Store {
	store, ok := sessions.FromContext(r.Context())
	if !ok {
		return sessions.NewStore(nil)
	}
	return store
}
