package apiclient

import (
	"encoding/json"
	"fmt"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
	StatusError   Status = "error"
)

// Envelope is the uniform wrapper of every API response.
type Envelope[T any] struct {
	Status  Status              `json:"status"`
	Data    T                   `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	// Error is an older single-string form of Message some endpoints still send.
	Error string `json:"error,omitempty"`

	HTTPStatus int `json:"-"`
}

// RawEnvelope keeps Data undecoded; see Decode.
type RawEnvelope = Envelope[json.RawMessage]

func (e *Envelope[T]) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// parseEnvelope turns a response body into a success envelope or a typed error.
func parseEnvelope(statusCode int, body []byte) (*RawEnvelope, error) {
	var env RawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &MalformedResponseError{StatusCode: statusCode, Err: err}
	}
	env.HTTPStatus = statusCode

	switch env.Status {
	case StatusSuccess:
		return &env, nil
	case StatusFail:
		return nil, &ValidationError{StatusCode: statusCode, Message: env.message(), Fields: env.Errors}
	case StatusError:
		return nil, &APIError{StatusCode: statusCode, Message: env.message()}
	default:
		return nil, &MalformedResponseError{StatusCode: statusCode, Err: fmt.Errorf("unknown envelope status %q", env.Status)}
	}
}

// Decode unmarshals env.Data into T.
func Decode[T any](env *RawEnvelope) (*Envelope[T], error) {
	out := &Envelope[T]{
		Status:     env.Status,
		Message:    env.Message,
		Errors:     env.Errors,
		Error:      env.Error,
		HTTPStatus: env.HTTPStatus,
	}
	if len(env.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out.Data); err != nil {
		return nil, &MalformedResponseError{StatusCode: env.HTTPStatus, Err: fmt.Errorf("decode data: %w", err)}
	}
	return out, nil
}
