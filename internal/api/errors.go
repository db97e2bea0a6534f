package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no token was present when one was
	// required; the request never reached the network.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrUnauthorized means the server rejected the token (401). The
	// client has already cleared the session and redirected, so callers
	// should not surface this again.
	ErrUnauthorized = errors.New("session rejected")
	// ErrForbidden means the server refused the operation for this
	// account (403). Handled the same way as ErrUnauthorized.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is a business-level 404.
	ErrNotFound = errors.New("not found")
	// ErrNetwork marks transport failures with no response at all.
	ErrNetwork = errors.New("network failure")
	// ErrServer marks 5xx responses.
	ErrServer = errors.New("server error")
)

// APIError is a non-2xx response the caller interprets.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error: status %d", e.Status)
}

// Is lets callers match the broad class with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrServer:
		return e.Status >= 500
	}
	return false
}

// ValidationError carries per-field messages from a 422 response.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// NetworkError wraps a transport failure.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
