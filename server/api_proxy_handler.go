package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/secondbloom/admin-dashboard/apiclient"
)

const msgBackendUnavailable = "Backend unavailable"

// APIProxyHandler forwards /api/* to the backend API with the session's bearer
// token. Browser cookies are never forwarded.
func (s *Server) APIProxyHandler() (http.HandlerFunc, error) {
	target, err := url.Parse(s.config.GetAPIBaseURL())
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid API_BASE_URL %q", s.config.GetAPIBaseURL())
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			rest := strings.TrimPrefix(pr.In.URL.Path, strings.TrimSuffix(RouteAPIPrefix, "/"))
			pr.Out.URL.Scheme = target.Scheme
			pr.Out.URL.Host = target.Host
			pr.Out.URL.Path = strings.TrimSuffix(target.Path, "/") + rest
			pr.Out.URL.RawPath = ""
			pr.Out.Host = ""
			pr.Out.Header.Del("Cookie")
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Err(err).Str("path", r.URL.Path).Msg("api proxy failed")
			writeJSON(w, http.StatusBadGateway, apiclient.Envelope[any]{
				Error: &apiclient.ErrorBody{Message: msgBackendUnavailable},
			})
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		store := s.sessions.Open(w, r)
		if store.IsAuthenticated() {
			if err := s.refresher.EnsureFresh(r.Context(), store); err == nil {
				r.Header.Set("Authorization", "Bearer "+store.AccessToken())
			}
		}
		proxy.ServeHTTP(w, r)
	}, nil
}

// HealthHandler reports liveness (GET /healthz)
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to write json response")
	}
}
