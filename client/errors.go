package client

import (
	"errors"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Sentinel errors callers can match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// errorBody mirrors the server's error response envelope.
type errorBody struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// APIError carries the HTTP status and server message of a failed call.
// It unwraps to one of the sentinel errors above where a mapping exists.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}
	return nil
}

func newAPIError(resp *resty.Response) error {
	apiErr := &APIError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
