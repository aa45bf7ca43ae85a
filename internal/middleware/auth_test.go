package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concours-app/backend/internal/config"
	"github.com/concours-app/backend/internal/domain"
	"github.com/concours-app/backend/internal/token"
	"github.com/concours-app/backend/internal/usecase"
)

func newGuardFixture(t *testing.T) (*AuthMiddleware, *token.Codec, *domain.User) {
	t.Helper()
	codec := token.NewCodec(&config.JWTConfig{
		AccessSecret:  "guard-access-secret",
		RefreshSecret: "guard-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Token verification only touches the codec.
	authUsecase := usecase.NewAuthUsecase(nil, nil, nil, codec, logger)
	user := &domain.User{ID: uuid.New(), Username: "cfd01", Role: domain.RoleCFD}
	return NewAuthMiddleware(authUsecase), codec, user
}

func echoPrincipal(t *testing.T, captured **Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := GetPrincipal(r.Context())
		require.True(t, ok)
		*captured = principal
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_CookieToken(t *testing.T) {
	guard, codec, user := newGuardFixture(t)

	access, err := codec.Issue(token.Access, user)
	require.NoError(t, err)

	var principal *Principal
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: access})
	rec := httptest.NewRecorder()

	guard.Authenticate(echoPrincipal(t, &principal)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, domain.RoleCFD, principal.Role)
	assert.Equal(t, "cfd01", principal.Username)
}

func TestAuthenticate_BearerFallback(t *testing.T) {
	guard, codec, user := newGuardFixture(t)

	access, err := codec.Issue(token.Access, user)
	require.NoError(t, err)

	var principal *Principal
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()

	guard.Authenticate(echoPrincipal(t, &principal)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, user.ID, principal.ID)
}

func TestAuthenticate_Failures(t *testing.T) {
	guard, codec, user := newGuardFixture(t)

	expiredCodec := token.NewCodec(&config.JWTConfig{
		AccessSecret:  "guard-access-secret",
		RefreshSecret: "guard-refresh-secret",
		AccessExpiry:  -time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
	expired, err := expiredCodec.Issue(token.Access, user)
	require.NoError(t, err)

	refresh, err := codec.Issue(token.Refresh, user)
	require.NoError(t, err)

	cases := []struct {
		name     string
		token    string
		wantCode string
	}{
		{"no token", "", "NO_ACCESS_TOKEN"},
		{"expired token", expired, "ACCESS_TOKEN_EXPIRED"},
		{"garbage token", "not-a-jwt", "ACCESS_TOKEN_INVALID"},
		{"refresh token in access slot", refresh, "ACCESS_TOKEN_INVALID"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
			if tc.token != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tc.token})
			}
			rec := httptest.NewRecorder()

			guard.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("handler must not run")
			})).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantCode)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	guard, codec, user := newGuardFixture(t)

	access, err := codec.Issue(token.Access, user)
	require.NoError(t, err)

	handler := guard.Authenticate(
		guard.RequireRoles(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: access})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")

	// Same route, matching role.
	admin := &domain.User{ID: uuid.New(), Username: "root", Role: domain.RoleAdmin}
	adminAccess, err := codec.Issue(token.Access, admin)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: adminAccess})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
