package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Login & Logout
	RouteLogin       = "/login"
	RouteLoginOTP    = "/login/otp"
	RouteLoginVerify = "/login/verify"
	RouteLoginBack   = "/login/back"
	RouteLogout      = "/logout"

	// Dashboard (protected)
	RouteDashboard              = "/dashboard"
	RouteDashboardCategories    = "/dashboard/categories"
	RouteDashboardProducts      = "/dashboard/products"
	RouteDashboardOrders        = "/dashboard/orders"
	RouteDashboardUsers         = "/dashboard/users"
	RouteDashboardReports       = "/dashboard/reports"
	RouteDashboardReviews       = "/dashboard/reviews"
	RouteDashboardChat          = "/dashboard/chat"
	RouteDashboardFiles         = "/dashboard/files"
	RouteDashboardNotifications = "/dashboard/notifications"
	RouteDashboardSettings      = "/dashboard/settings"

	// Backend API proxy
	RouteAPIPrefix = "/api/"

	// Static Asset Routes (patterns)
	RouteStaticPrefix = "/static/"
	RouteStatic       = "/static/{file...}"

	RouteHealth = "/healthz"
)
