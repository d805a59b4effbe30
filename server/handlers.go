package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-notes-server/auth"
	"github.com/jrsteele09/go-notes-server/users"
)

const (
	detailEmailExists          = "email exists"
	detailInvalidLogin         = "invalid email or password"
	detailInternalServerError  = "Internal Server Error"
	maxRequestBodyBytes        = 1 << 20
	headerWWWAuthenticate      = "WWW-Authenticate"
	wwwAuthenticateBearerValue = "Bearer"
)

// IndexHandler returns the hello message
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Hello World"})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// SignupHandler creates a user from a JSON body and logs them straight in
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.metrics.signups.WithLabelValues("invalid").Inc()
			writeJSONError(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := s.validate.Struct(req); err != nil {
			s.metrics.signups.WithLabelValues("invalid").Inc()
			writeJSONError(w, validationDetail(err), http.StatusBadRequest)
			return
		}

		resp, err := s.auth.Signup(r.Context(), req.Email, req.Password)
		switch {
		case err == nil:
		case errors.Is(err, users.ErrEmailExists):
			s.metrics.signups.WithLabelValues("conflict").Inc()
			writeJSONError(w, detailEmailExists, http.StatusConflict)
			return
		case errors.Is(err, bcrypt.ErrPasswordTooLong):
			s.metrics.signups.WithLabelValues("invalid").Inc()
			writeJSONError(w, "password is too long", http.StatusBadRequest)
			return
		default:
			s.metrics.signups.WithLabelValues("error").Inc()
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("signup failed")
			writeJSONError(w, detailInternalServerError, http.StatusInternalServerError)
			return
		}

		s.metrics.signups.WithLabelValues("success").Inc()
		writeJSON(w, http.StatusOK, resp)
	}
}

// LoginHandler exchanges the OAuth2 password form for an access token
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
		if err := r.ParseForm(); err != nil {
			s.metrics.logins.WithLabelValues("invalid").Inc()
			writeJSONError(w, "Failed to parse form data", http.StatusBadRequest)
			return
		}
		req := LoginRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}
		if err := s.validate.Struct(req); err != nil {
			s.metrics.logins.WithLabelValues("invalid").Inc()
			writeJSONError(w, validationDetail(err), http.StatusBadRequest)
			return
		}

		resp, err := s.auth.Login(r.Context(), req.Username, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.metrics.logins.WithLabelValues("invalid_credentials").Inc()
			writeUnauthorized(w, detailInvalidLogin)
			return
		}
		if err != nil {
			s.metrics.logins.WithLabelValues("error").Inc()
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("login failed")
			writeJSONError(w, detailInternalServerError, http.StatusInternalServerError)
			return
		}

		s.metrics.logins.WithLabelValues("success").Inc()
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeUnauthorized(w, detailNotAuthenticated)
			return
		}
		if err := s.auth.Logout(r.Context(), session); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("logout failed")
			writeJSONError(w, detailInternalServerError, http.StatusInternalServerError)
			return
		}
		s.metrics.logouts.Inc()
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
	}
}

// MeHandler returns the currently authenticated user
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeUnauthorized(w, detailNotAuthenticated)
			return
		}
		writeJSON(w, http.StatusOK, session.User.Public())
	}
}

// ListUsersHandler lists user emails; offset and limit query params are optional
func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := queryInt(r, "offset")
		if err != nil {
			writeJSONError(w, "offset must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit, err := queryInt(r, "limit")
		if err != nil {
			writeJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}

		list, err := s.auth.ListUsers(r.Context(), offset, limit)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("listing users")
			writeJSONError(w, detailInternalServerError, http.StatusInternalServerError)
			return
		}

		resp := make([]UserEmailResponse, 0, len(list))
		for _, u := range list {
			resp = append(resp, UserEmailResponse{Email: u.Email})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// UserByEmailHandler looks a user up by the email in the path
func (s *Server) UserByEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.PathValue("email")
		user, err := s.auth.UserByEmail(r.Context(), email)
		if errors.Is(err, users.ErrUserNotFound) {
			writeJSONError(w, fmt.Sprintf("No User with email: %s", email), http.StatusNotFound)
			return
		}
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("user lookup failed")
			writeJSONError(w, detailInternalServerError, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, user.Public())
	}
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%s is negative", name)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a {"detail": ...} error body
func writeJSONError(w http.ResponseWriter, detail string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Detail: detail})
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set(headerWWWAuthenticate, wwwAuthenticateBearerValue)
	writeJSONError(w, detail, http.StatusUnauthorized)
}
