package backlog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the backlog server could not be reached.
	ErrUnavailable = errors.New("backlog server unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("backlog request timed out")

	// ErrInvalidPayload indicates a response body could not be decoded or
	// held stories or sprints that break a domain invariant.
	ErrInvalidPayload = errors.New("invalid backlog payload")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("backlog retry attempts exhausted")
)

// StatusError reports a non-2xx response from the backlog API.
type StatusError struct {
	Endpoint   Endpoint
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Retryable reports whether the server may succeed on a second attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500
}
