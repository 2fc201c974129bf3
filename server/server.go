package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/secondbloom/admin-dashboard/apiclient"
	"github.com/secondbloom/admin-dashboard/internal/config"
	"github.com/secondbloom/admin-dashboard/login"
	"github.com/secondbloom/admin-dashboard/sessions"
	"github.com/secondbloom/admin-dashboard/sessions/storage"
)

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	handler   http.Handler
	routes    []string
	config    config.Config
	api       *apiclient.Client
	sessions  *sessions.Manager
	refresher *sessions.Refresher
	logins    *login.Service
	layout    *template.Template
}

// New wires the dashboard. sessionRepo holds the durable session entries and
// flowRepo the in-progress logins.
func New(c config.Config, sessionRepo storage.Repo, flowRepo login.Repo) (*Server, error) {
	if sessionRepo == nil {
		return nil, fmt.Errorf("[Server New] session repo is required")
	}
	if flowRepo == nil {
		return nil, fmt.Errorf("[Server New] login flow repo is required")
	}

	layout, err := ParseTemplate("admin_layout.html")
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse layout: %w", err)
	}

	api := apiclient.New(c.GetAPIBaseURL(), c.GetAPITimeout())
	s := &Server{
		env:    c.GetEnv(),
		mux:    http.NewServeMux(),
		config: c,
		api:    api,
		sessions: sessions.NewManager(sessionRepo, sessions.CookiePolicy{
			AccessTokenMaxAge:  c.GetAccessTokenCookieMaxAge(),
			RefreshTokenMaxAge: c.GetRefreshTokenCookieMaxAge(),
			StoreKeyMaxAge:     c.GetStoreKeyCookieMaxAge(),
		}),
		refresher: sessions.NewRefresher(api, c.GetRefreshSkew()),
		logins:    login.NewService(api, flowRepo),
		layout:    layout,
	}

	if err := s.initRoutes(); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	s.handler = s.RequestGate(s.mux)
	s.logRoutes()

	return s, nil
}

// Logins exposes the login flow service so main can run its janitor
func (s *Server) Logins() *login.Service {
	return s.logins
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Printf("[%-19s] %s", colouredMethod(method), path)
}

func logError(method, path, error string) {
	log.Printf("[%-19s] %s %s", colouredMethod(method), path, Red+error+ResetColor)
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
