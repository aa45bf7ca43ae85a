// Package apperr defines the closed error taxonomy of the API. Every failure
// a handler can surface is an *Error with a stable machine-readable code and
// an HTTP status, so transport mapping lives in exactly one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured application error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Session/credential failure kinds. The message for InvalidCredentials is
// deliberately identical for unknown user and wrong password.

func InvalidCredentials() *Error {
	return &Error{Code: "INVALID_CREDENTIALS", Message: "invalid username or password", Status: http.StatusUnauthorized}
}

func MissingRefreshToken() *Error {
	return &Error{Code: "MISSING_REFRESH_TOKEN", Message: "no refresh token provided", Status: http.StatusUnauthorized}
}

func RefreshExpired() *Error {
	return &Error{Code: "REFRESH_EXPIRED", Message: "refresh token expired", Status: http.StatusUnauthorized}
}

func RefreshInvalid() *Error {
	return &Error{Code: "REFRESH_INVALID", Message: "refresh token invalid", Status: http.StatusUnauthorized}
}

func RefreshMalformed() *Error {
	return &Error{Code: "REFRESH_MALFORMED", Message: "refresh token carries no subject", Status: http.StatusUnauthorized}
}

func RefreshReusedOrRevoked() *Error {
	return &Error{Code: "REFRESH_REUSED_OR_REVOKED", Message: "refresh token unknown or already used", Status: http.StatusUnauthorized}
}

func RefreshExpiredInStore() *Error {
	return &Error{Code: "REFRESH_EXPIRED_IN_STORE", Message: "refresh session expired", Status: http.StatusUnauthorized}
}

func RefreshRevokedByVersion() *Error {
	return &Error{Code: "REFRESH_REVOKED_BY_VERSION", Message: "session invalidated, sign in again", Status: http.StatusUnauthorized}
}

func PrincipalNotFound() *Error {
	return &Error{Code: "PRINCIPAL_NOT_FOUND", Message: "account no longer exists", Status: http.StatusUnauthorized}
}

// Unexpected wraps an internal failure. The cause is kept for server-side
// logging and never serialized to the client.
func Unexpected(err error) *Error {
	return &Error{Code: "UNEXPECTED_FAILURE", Message: "an internal error occurred", Status: http.StatusInternalServerError, Err: err}
}

// Generic transport-level kinds used by guards and CRUD handlers.

func Unauthorized(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: http.StatusUnauthorized}
}

func Forbidden(message string) *Error {
	return &Error{Code: "FORBIDDEN", Message: message, Status: http.StatusForbidden}
}

func InvalidInput(message string) *Error {
	return &Error{Code: "INVALID_INPUT", Message: message, Status: http.StatusBadRequest}
}

func NotFound(resource string) *Error {
	return &Error{Code: "NOT_FOUND", Message: resource + " not found", Status: http.StatusNotFound}
}

func Conflict(message string) *Error {
	return &Error{Code: "CONFLICT", Message: message, Status: http.StatusConflict}
}

// HTTPStatus maps any error to a transport status. Non-apperr errors are
// internal failures by definition.
func HTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// As extracts the *Error from err, wrapping unknown errors as Unexpected.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected(err)
}

// Is reports whether err carries the given machine code.
func Is(err error, code string) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
