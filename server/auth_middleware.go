package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-notes-server/auth"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the resolved *auth.Session
	ContextKeySession ContextKey = "session"
)

const (
	detailNotAuthenticated   = "Not authenticated"
	detailInvalidCredentials = "Could not validate credentials"
)

// SessionFromContext returns the session RequireAuth stored for the request.
func SessionFromContext(ctx context.Context) (*auth.Session, bool) {
	session, ok := ctx.Value(ContextKeySession).(*auth.Session)
	return session, ok && session != nil
}

// RequireAuth is middleware that validates a Bearer access token and puts the
// resulting session in the request context. Every rejection looks the same to
// the client; the reason is only logged and counted.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rawToken, ok := bearerToken(r)
			if !ok {
				s.metrics.authFailures.WithLabelValues("missing").Inc()
				writeUnauthorized(w, detailNotAuthenticated)
				return
			}

			session, err := s.auth.Resolve(r.Context(), rawToken)
			if err != nil {
				var authErr *auth.AuthError
				if errors.As(err, &authErr) {
					s.metrics.authFailures.WithLabelValues(string(authErr.Kind)).Inc()
					zerolog.Ctx(r.Context()).Info().Str("reason", string(authErr.Kind)).Msg("token rejected")
					writeUnauthorized(w, detailInvalidCredentials)
					return
				}
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("resolving session")
				writeJSONError(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
