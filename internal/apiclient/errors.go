package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks a 401 from the backend on anything but login. The
// stored token has already been cleared by the time the caller sees it.
var ErrUnauthorized = errors.New("admin session is no longer valid, please log in again")

// APIError is a non-2xx backend response.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string // backend message, verbatim; empty when none was sent
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized && e.Path != PathLogin {
		return ErrUnauthorized
	}
	return nil
}

// UserMessage picks the text to show an admin for err: the backend message
// when there is one, the fallback otherwise.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnauthorized) {
		return ErrUnauthorized.Error()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
