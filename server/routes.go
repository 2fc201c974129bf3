package server

import (
	"net/http"
	"strings"
)

// placeholderPages are the dashboard sections rendered without content of their own
var placeholderPages = []struct {
	route, page, title string
}{
	{RouteDashboardCategories, "categories", "Categories"},
	{RouteDashboardProducts, "products", "Products"},
	{RouteDashboardOrders, "orders", "Orders"},
	{RouteDashboardUsers, "users", "Users"},
	{RouteDashboardReports, "reports", "Reports"},
	{RouteDashboardReviews, "reviews", "Reviews"},
	{RouteDashboardChat, "chat", "Chat"},
	{RouteDashboardFiles, "files", "Files"},
	{RouteDashboardNotifications, "notifications", "Notifications"},
}

func (s *Server) initRoutes() error {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.RecoverMiddleware))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLoginOTP, ChainMiddleware(s.SendOTPHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLoginVerify, ChainMiddleware(s.VerifyOTPHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLoginBack, ChainMiddleware(s.LoginBackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Dashboard routes (require an authenticated session)
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	for _, p := range placeholderPages {
		s.RegisterRouteHandler("GET "+p.route, ChainMiddleware(s.PlaceholderHandler(p.page, p.title), s.HTMLMiddleWare(s.RequireSession)...))
	}
	s.RegisterRouteHandler("GET "+RouteDashboardSettings, ChainMiddleware(s.SettingsGetHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteDashboardSettings, ChainMiddleware(s.SettingsPostHandler(), s.HTMLMiddleWare(s.RequireSession)...))

	// Backend API proxy
	proxy, err := s.APIProxyHandler()
	if err != nil {
		return err
	}
	s.RegisterRouteHandler(RouteAPIPrefix, ChainMiddleware(proxy, s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteStatic, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	return nil
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.PathValue("file"), "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError(r.Method, filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
