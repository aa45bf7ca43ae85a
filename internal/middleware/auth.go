package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/concours-app/backend/internal/apperr"
	"github.com/concours-app/backend/internal/domain"
	"github.com/concours-app/backend/internal/token"
	"github.com/concours-app/backend/internal/usecase"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated identity attached to the request context.
// Role comes straight from the access token; it is not re-read from the
// database on every request.
type Principal struct {
	ID       uuid.UUID
	Username string
	Role     domain.Role
}

type AuthMiddleware struct {
	authUsecase *usecase.AuthUsecase
}

func NewAuthMiddleware(authUsecase *usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate verifies the access token and stores the Principal in the
// request context. The token is read from the access_token cookie first,
// falling back to a Bearer header for non-browser clients.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := accessTokenFrom(r)
		if raw == "" {
			writeGuardError(w, apperr.Unauthorized("NO_ACCESS_TOKEN", "no access token provided"))
			return
		}

		claims, err := m.authUsecase.VerifyAccess(raw)
		if errors.Is(err, token.ErrTokenExpired) {
			writeGuardError(w, apperr.Unauthorized("ACCESS_TOKEN_EXPIRED", "access token expired"))
			return
		}
		if err != nil {
			writeGuardError(w, apperr.Unauthorized("ACCESS_TOKEN_INVALID", "access token invalid"))
			return
		}

		subject, err := uuid.Parse(claims.Subject)
		if err != nil {
			writeGuardError(w, apperr.Unauthorized("ACCESS_TOKEN_INVALID", "access token invalid"))
			return
		}

		principal := &Principal{ID: subject, Username: claims.Username, Role: claims.Role}
		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles gates a route to the given roles. It must run after
// Authenticate.
func (m *AuthMiddleware) RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				writeGuardError(w, apperr.Unauthorized("NO_ACCESS_TOKEN", "no access token provided"))
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeGuardError(w, apperr.Forbidden("insufficient role"))
		})
	}
}

func GetPrincipal(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*Principal)
	return principal, ok
}

func accessTokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if raw, found := strings.CutPrefix(header, "Bearer "); found {
		return raw
	}
	return ""
}

func writeGuardError(w http.ResponseWriter, appErr *apperr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(map[string]any{"error": appErr})
}
