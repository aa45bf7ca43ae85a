package http

import (
	"encoding/json"
	"net/http"

	"github.com/concours-app/backend/internal/apperr"
	"github.com/concours-app/backend/internal/middleware"
	"github.com/concours-app/backend/internal/validate"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User   interface{} `json:"user"`
	Tokens interface{} `json:"tokens"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	user, pair, err := h.authUsecase.Login(req.Username, req.Password, clientMeta(r))
	if err != nil {
		middleware.CountAuthFailure(apperr.As(err).Code)
		h.writeAppError(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, authResponse{User: user, Tokens: pair})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshTokenFrom prefers the scoped cookie and falls back to the request
// body for non-browser clients.
func refreshTokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	pair, err := h.authUsecase.Refresh(refreshTokenFrom(r), clientMeta(r))
	if err != nil {
		// Whatever the reason, the client's session is over: drop the cookies
		// so the browser stops replaying dead tokens.
		h.clearAuthCookies(w)
		middleware.CountAuthFailure(apperr.As(err).Code)
		h.writeAppError(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, map[string]any{"tokens": pair})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authUsecase.Logout(refreshTokenFrom(r), clientMeta(r))
	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "NO_ACCESS_TOKEN", "no access token provided")
		return
	}

	user, err := h.authUsecase.GetUserByID(principal.ID)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	if user == nil {
		h.writeAppError(w, apperr.PrincipalNotFound())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
