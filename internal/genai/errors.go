package genai

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("invalid request parameters")
	ErrRemote          = errors.New("remote API error")
	ErrTransport       = errors.New("transport failure")
	ErrUnknownEndpoint = errors.New("unknown endpoint")
)

// ValidationError reports a request that was rejected before any I/O.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// RemoteError reports a non-2xx response. Message holds the server-provided
// error message when the body carried one.
type RemoteError struct {
	StatusCode int
	// Status and Code mirror error.status and error.code of the payload.
	Status  string
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API request failed with status %d", e.StatusCode)
}

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// TransportError reports a failed exchange: connectivity problems, a
// cancelled context or a response body that is not JSON.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Kind classifies err as "validation", "remote" or "transport".
// It returns "" for nil and for errors that did not come from this package.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrRemote):
		return "remote"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return ""
	}
}

// errorPayload is the body shape of a failed call:
// {"error": {"code": 403, "message": "...", "status": "PERMISSION_DENIED"}}
type errorPayload struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func newRemoteError(statusCode int, body []byte) *RemoteError {
	remote := &RemoteError{StatusCode: statusCode}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == nil {
		return remote
	}
	remote.Message = payload.Error.Message
	remote.Status = payload.Error.Status
	remote.Code = payload.Error.Code
	return remote
}
