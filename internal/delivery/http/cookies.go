package http

import (
	"net/http"

	"github.com/concours-app/backend/internal/usecase"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"

	// The refresh cookie only travels to the auth endpoints, so the refresh
	// token is never sent with ordinary API requests.
	refreshCookiePath = "/api/v1/auth"
)

// setAuthCookies installs both token cookies. Lifetimes derive from the same
// configuration values the token codec signs with, so cookie expiry and token
// expiry cannot drift apart.
func (h *Handler) setAuthCookies(w http.ResponseWriter, pair *usecase.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.cfg.JWT.AccessExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     refreshCookiePath,
		MaxAge:   int(h.cfg.JWT.RefreshExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: http.SameSiteStrictMode,
	})
}
