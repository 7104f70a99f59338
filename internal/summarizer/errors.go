package summarizer

import (
	"fmt"

	"github.com/ryosukesatoh/vault-digest/internal/retry"
)

// ErrorKind classifies backend failures.
type ErrorKind int

const (
	// KindTimeout covers deadline and network timeout failures.
	KindTimeout ErrorKind = iota
	// KindTransport covers connection errors and non-2xx HTTP statuses.
	KindTransport
	// KindInvalidResponse covers responses that arrived but could not
	// be decoded or were empty.
	KindInvalidResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindInvalidResponse:
		return "invalid response"
	default:
		return "unknown"
	}
}

// BackendError is a classified failure from a summarization backend.
// Status carries the HTTP status code when one was received.
type BackendError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("backend %s error: %v", e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt can plausibly succeed.
// Failures without an HTTP status (timeouts, connection errors,
// malformed responses) are worth retrying; status codes follow the
// shared retry policy.
func (e *BackendError) Retryable() bool {
	if e.Status == 0 {
		return true
	}
	return retry.HTTPStatusRetryable(e.Status)
}
