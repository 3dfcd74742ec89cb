package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every business failure returned by this package wraps exactly one.
var (
	ErrValidation       = errors.New("validation error")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrTooLateToCancel  = errors.New("too late to cancel")
	ErrAlreadyCancelled = errors.New("already cancelled")
	ErrInvalidReference = errors.New("invalid reference")
)

var (
	ErrDuplicateEmail = &Error{Kind: ErrConflict, Message: "Email already exists"}
	ErrTokenExpired   = &Error{Kind: ErrUnauthenticated, Message: "Token expired"}
	ErrTokenInvalid   = &Error{Kind: ErrUnauthenticated, Message: "Invalid token"}
	ErrTokenRevoked   = &Error{Kind: ErrUnauthenticated, Message: "Session has been logged out"}
	ErrNoSession      = &Error{Kind: ErrUnauthenticated, Message: "Please login"}
	ErrStaleSession   = &Error{Kind: ErrUnauthenticated, Message: "Not authorized, user not found"}
	ErrRoleDenied     = &Error{Kind: ErrForbidden, Message: "Insufficient permissions"}
)

// Error carries a caller-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the caller-facing text of err, or "" for internal errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// HTTPStatus maps err to the status code reported to clients.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrTooLateToCancel),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
