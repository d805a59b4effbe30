package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())

	// USERS
	s.RegisterRouteFunc("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteUsers, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteUsersLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))

	// Protected user routes (require a valid bearer token)
	s.RegisterRouteFunc("POST "+RouteUsersLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteUsersMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteUserByEmail, ChainMiddleware(s.UserByEmailHandler(), s.APIMiddleware(s.RequireAuth())...))
}
