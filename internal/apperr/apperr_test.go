package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    *Error
		code   string
		status int
	}{
		{InvalidCredentials(), "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{MissingRefreshToken(), "MISSING_REFRESH_TOKEN", http.StatusUnauthorized},
		{RefreshExpired(), "REFRESH_EXPIRED", http.StatusUnauthorized},
		{RefreshInvalid(), "REFRESH_INVALID", http.StatusUnauthorized},
		{RefreshMalformed(), "REFRESH_MALFORMED", http.StatusUnauthorized},
		{RefreshReusedOrRevoked(), "REFRESH_REUSED_OR_REVOKED", http.StatusUnauthorized},
		{RefreshExpiredInStore(), "REFRESH_EXPIRED_IN_STORE", http.StatusUnauthorized},
		{RefreshRevokedByVersion(), "REFRESH_REVOKED_BY_VERSION", http.StatusUnauthorized},
		{PrincipalNotFound(), "PRINCIPAL_NOT_FOUND", http.StatusUnauthorized},
		{Unexpected(errors.New("boom")), "UNEXPECTED_FAILURE", http.StatusInternalServerError},
		{Forbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{NotFound("faculty"), "NOT_FOUND", http.StatusNotFound},
		{Conflict("username taken"), "CONFLICT", http.StatusConflict},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.status, HTTPStatus(tt.err))
		assert.True(t, Is(tt.err, tt.code))
	}
}

func TestUnexpectedHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Unexpected(cause)

	assert.Equal(t, "an internal error occurred", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestAsWrapsUnknownErrors(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, "UNEXPECTED_FAILURE", As(plain).Code)

	wrapped := fmt.Errorf("refresh: %w", RefreshInvalid())
	assert.Equal(t, "REFRESH_INVALID", As(wrapped).Code)
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(wrapped))
}
