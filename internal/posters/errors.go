package posters

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorClass groups fetch failures by how callers should react to them.
type ErrorClass string

const (
	// ErrorClassNetwork covers transport failures and timeouts.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode covers payloads that could not be parsed.
	ErrorClassDecode ErrorClass = "decode"

	// ErrorClassNotFound covers unknown wallpaper IDs.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassClient covers every other 4xx response.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer covers 5xx responses.
	ErrorClassServer ErrorClass = "server"
)

var (
	// ErrNotFound is returned when the backend does not know the requested wallpaper.
	ErrNotFound = errors.New("wallpaper not found")

	// ErrDecode is returned when a response body is not valid wallpaper JSON.
	ErrDecode = errors.New("decode response")

	// ErrRetryExhausted is returned when every attempt of a transient failure failed.
	ErrRetryExhausted = errors.New("retry attempts exhausted")
)

// APIError describes a failed backend request.
type APIError struct {
	Class      ErrorClass
	StatusCode int
	Endpoint   string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		if e.Err != nil {
			return fmt.Sprintf("api %s returned status %d: %v", e.Endpoint, e.StatusCode, e.Err)
		}
		return fmt.Sprintf("api %s returned status %d", e.Endpoint, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("api %s %s error: %v", e.Endpoint, e.Class, e.Err)
	}
	return fmt.Sprintf("api %s %s error", e.Endpoint, e.Class)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassOf returns the class of err, or an empty class when err did not come from the client.
func ClassOf(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}
	return ""
}

// IsTransient reports whether a retry could plausibly succeed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return shouldRetry(ClassOf(err))
}

func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassNetwork, ErrorClassServer:
		return true
	default:
		return false
	}
}

func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusNotFound:
		return ErrorClassNotFound
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}
