package http

import (
	"context"
	"net/http"
	"strings"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "claims"

// Middleware gates requests on the access token carried in the "token"
// cookie or an Authorization bearer header.
type Middleware struct {
	tokenManager security.TokenManager
}

func NewMiddleware(tokenManager security.TokenManager) *Middleware {
	return &Middleware{tokenManager: tokenManager}
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Authenticate rejects requests without a valid access token.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, response{Success: false, Message: "Not authorized to access this route"})
			return
		}
		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, response{Success: false, Message: "Not authorized to access this route"})
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

// OptionalAuth attaches claims when a valid token is present but lets
// anonymous requests through.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := extractToken(r); token != "" {
			if claims, err := m.tokenManager.ValidateToken(token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
			}
		}
		next(w, r)
	}
}

// RequireAdmin gates a route on the admin role. Must wrap inside Authenticate.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil || claims.Role != string(domain.UserRoleAdmin) {
			writeJSON(w, http.StatusForbidden, response{Success: false, Message: "Admin access required"})
			return
		}
		next(w, r)
	})
}

// ClaimsFromContext returns the authenticated claims, or nil for anonymous
// requests.
func ClaimsFromContext(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(claimsKey).(*security.UserClaims)
	return claims
}

// UserIDFromContext returns the authenticated user ID, 0 for anonymous.
func UserIDFromContext(ctx context.Context) int32 {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}
