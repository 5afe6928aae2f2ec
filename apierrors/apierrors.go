// apierrors/apierrors.go
// Package apierrors holds the typed errors returned by the client. Callers tell them apart
// with errors.As.
package apierrors

import (
	"fmt"
	"net/http"
)

// InitializationError reports an invalid setup request, such as an unusable credential
// combination or an unknown API mode. It is raised before any network traffic.
type InitializationError struct {
	Reason string
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialization error: %s", e.Reason)
}

// ConfigValidationError reports a malformed configuration document or a lookup of a
// profile or key that the configuration does not define.
type ConfigValidationError struct {
	Field  string
	Reason string
}

func (e *ConfigValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config validation error: %s", e.Reason)
	}
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Reason)
}

// AuthError reports a failed token exchange, refresh, keep-alive or invalidation.
// StatusCode is zero when no response was received.
type AuthError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("auth error: %s", e.Op)
	if e.URL != "" {
		msg += fmt.Sprintf(" (%s)", e.URL)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RequestValidationError reports a bad parameter passed to an endpoint method. No request
// has been sent when it is returned.
type RequestValidationError struct {
	Param  string
	Value  string
	Reason string
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Param, e.Value, e.Reason)
}

// HTTPResponseError is a non-2xx response surfaced under strict response handling.
type HTTPResponseError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Body       string
}

func (e *HTTPResponseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("bad response: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, msg)
}
