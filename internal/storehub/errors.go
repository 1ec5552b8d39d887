package storehub

import (
	"errors"
	"fmt"
)

var (
	ErrAuth        = errors.New("storehub authentication failed")
	ErrNotFound    = errors.New("storehub resource not found")
	ErrRateLimited = errors.New("storehub rate limited")
	ErrServer      = errors.New("storehub server error")
	ErrNetwork     = errors.New("storehub network error")
	ErrValidation  = errors.New("validation failed")
)

// APIError describes a failed gateway call. Kind is one of the sentinel errors above.
type APIError struct {
	Kind       error
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s %s", e.Kind, e.Method, e.Path)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: field %q %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func missingField(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Category returns a short label for logs and metrics.
func Category(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrServer):
		return "server"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
