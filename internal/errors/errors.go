package errors

import "errors"

// Common error types for the admin dashboard
var (
	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")

	// Login flow errors
	ErrFlowNotFound    = errors.New("login flow not found")
	ErrFlowExpired     = errors.New("login flow expired")
	ErrInvalidStep     = errors.New("action not allowed in current login step")
	ErrRequestInFlight = errors.New("a request is already in progress")
	ErrAccessDenied    = errors.New("access denied")

	// Backend API errors
	ErrTransport    = errors.New("backend unreachable")
	ErrUnauthorized = errors.New("backend rejected credentials")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrUnsupported = errors.New("unsupported operation")
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text
func New(text string) error {
	return errors.New(text)
}
