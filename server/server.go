package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-notes-server/auth"
	"github.com/jrsteele09/go-notes-server/internal/config"
	"github.com/jrsteele09/go-notes-server/token"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	handler  http.Handler
	routes   []string
	auth     *auth.AuthService
	metrics  *Metrics
	validate *validator.Validate
}

// New builds the HTTP surface over authService. revocations is only read for
// the revoked tokens gauge and may be nil.
func New(config config.Config, authService *auth.AuthService, revocations token.Registry) (*Server, error) {
	if authService == nil {
		return nil, errors.New("[Server New] auth service is required")
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		auth:     authService,
		metrics:  NewMetrics(revocations),
		validate: validator.New(),
	}

	s.initRoutes()
	s.handler = cors.New(cors.Options{
		AllowedOrigins:   config.GetAllowedOrigins(),
		AllowedMethods:   config.GetAllowedMethods(),
		AllowedHeaders:   config.GetAllowedHeaders(),
		AllowCredentials: true,
	}).Handler(s.mux)
	s.logRoutes()

	return s, nil
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
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		log.Debug().Msgf("route %-16s %s", colourMethod(method), path)
	}
}
