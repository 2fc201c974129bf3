package apiclient

import (
	"fmt"
	"net/http"

	"github.com/secondbloom/admin-dashboard/internal/errors"
)

var (
	ErrTransport    = errors.ErrTransport
	ErrUnauthorized = errors.ErrUnauthorized
)

// APIError is a non-2xx response (or an envelope carrying an error)
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps 401 onto errors.ErrUnauthorized so callers can errors.Is it.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return errors.ErrUnauthorized
	}
	return nil
}

// MessageOr returns the envelope's error.message carried by err, or fallback
// when err has none (transport failures, bare status errors).
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsUnauthorized reports whether the backend rejected the credentials
func IsUnauthorized(err error) bool {
	return errors.Is(err, errors.ErrUnauthorized)
}
