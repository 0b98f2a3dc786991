package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformedResponse matches responses whose body is not a valid envelope.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrValidation matches "fail" envelopes.
	ErrValidation = errors.New("validation failed")
	// ErrAPI matches "error" envelopes.
	ErrAPI = errors.New("api error")
	// ErrUnauthorized matches any error produced from an HTTP 401 response.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionExpired matches a failed token refresh. The client has
	// already dropped both tokens when it is returned.
	ErrSessionExpired = errors.New("session expired")
)

// MalformedResponseError is returned when the body cannot be decoded as an
// envelope or the envelope status is unknown.
type MalformedResponseError struct {
	StatusCode int
	Err        error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response (http %d): %v", e.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse || (target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized)
}

// ValidationError carries the per-field messages of a "fail" envelope.
type ValidationError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrValidation.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized)
}

// FieldMessage returns the first message reported for field.
func (e *ValidationError) FieldMessage(field string) (string, bool) {
	msgs := e.Fields[field]
	if len(msgs) == 0 {
		return "", false
	}
	return msgs[0], true
}

// APIError is a generic "error" envelope with no field breakdown.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (http %d)", e.StatusCode)
	}
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrAPI || (target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized)
}

// RefreshError reports why /auth/refresh did not yield a usable token pair.
// StatusCode is zero when the call never produced an HTTP response.
type RefreshError struct {
	StatusCode int
	Err        error
}

func (e *RefreshError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token refresh failed (http %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

func (e *RefreshError) Is(target error) bool { return target == ErrSessionExpired }
