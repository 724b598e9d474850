package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnconfigured means no backend credentials were supplied.
	ErrUnconfigured = errors.New("backend not configured: set BACKEND_URL and BACKEND_KEY (or DATABASE_URL)")
	// ErrInvalidCredentials is returned by sign-in and token verification.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned by SelectOne when no row matches.
	ErrNotFound = errors.New("not found")
)

// Error is a query or transport failure reported by the backend.
type Error struct {
	Op         string
	Table      string
	StatusCode int
	// Code is the backend's machine-readable error code, when it sends one.
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	target := e.Op
	if e.Table != "" {
		target += " " + e.Table
	}
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("backend %s: status %d: %s", target, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("backend %s: status %d", target, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("backend %s: %v", target, e.Err)
	case e.Message != "":
		return fmt.Sprintf("backend %s: %s", target, e.Message)
	}
	return fmt.Sprintf("backend %s failed", target)
}

func (e *Error) Unwrap() error { return e.Err }

// IsBackendError reports whether err wraps an *Error.
func IsBackendError(err error) bool {
	var be *Error
	return errors.As(err, &be)
}
