package server

import (
	"net/http"
)

// IndexHandler sends signed-in admins to the dashboard and everyone else to login
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.openSession(w, r).IsAuthenticated() {
			redirectSuccess(w, r, RouteDashboard)
			return
		}
		redirectSuccess(w, r, RouteLogin)
	}
}
