package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"industrial-catalog/internal/domain"

	"go.uber.org/zap"
)

// RequireAdmin middleware ensures the user has admin role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if role != domain.RoleAdmin {
				logger.Warn("Non-admin user attempted to access admin endpoint",
					zap.String("role", string(role)),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BasicCredentials is the configured administrator login for Basic auth
type BasicCredentials struct {
	Username string
	Password string
}

func (c BasicCredentials) matches(username, password string) bool {
	if c.Username == "" || c.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return userOK && passOK
}

// AdminAuthMiddleware admits requests carrying either the configured Basic
// credentials or a bearer token with the admin role.
func AdminAuthMiddleware(creds BasicCredentials, tokens TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	bearer := AuthMiddleware(tokens, logger)
	requireAdmin := RequireAdmin(logger)

	return func(next http.Handler) http.Handler {
		tokenChain := bearer(requireAdmin(next))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.Header.Get("Authorization"), "Basic ") {
				username, password, ok := r.BasicAuth()
				if !ok || !creds.matches(username, password) {
					logger.Warn("Rejected admin basic credentials", zap.String("username", username))
					w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
					RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
					return
				}

				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), 0, domain.RoleAdmin)))
				return
			}

			if r.Header.Get("Authorization") == "" {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			}
			tokenChain.ServeHTTP(w, r)
		})
	}
}
