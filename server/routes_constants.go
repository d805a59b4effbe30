package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/{$}"

	// User Routes
	RouteUsers       = "/users"
	RouteUsersLogin  = "/users/login"
	RouteUsersLogout = "/users/logout"
	RouteUsersMe     = "/users/me"
	RouteUserByEmail = "/users/{email}"

	// Operational Routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
