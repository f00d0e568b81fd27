package recipeclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("recipe not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// APIError is a non-2xx response decoded from {"error","details"}.
type APIError struct {
	StatusCode int    `json:"-"`
	Kind       string `json:"error"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Kind)
	}
	return fmt.Sprintf("http %d: %s: %s", e.StatusCode, e.Kind, e.Details)
}

// Is lets callers match on the sentinel for the status code.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusForbidden:
		return target == ErrForbidden
	}
	return false
}
