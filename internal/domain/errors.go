package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingCredential = errors.New("missing credential")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrNotFound          = errors.New("not found")
)

// UpstreamError describes a failed call to the disclosure API. Status is zero
// when the request never produced an HTTP response (transport error, timeout).
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("upstream failure: %s", e.Message)
	}
	return fmt.Sprintf("upstream failure: status %d: %s", e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamFailure
}

// NewUpstreamError builds an UpstreamError for the given status and message.
func NewUpstreamError(status int, message string) error {
	return &UpstreamError{Status: status, Message: message}
}
