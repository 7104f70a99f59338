package summarizer

import (
	"context"
)

// Request is a single summarization call to a backend.
type Request struct {
	Prompt    string
	Model     string
	MaxTokens int
}

// Backend is an external text-generation service. Implementations
// return the generated text or a *BackendError.
type Backend interface {
	Summarize(ctx context.Context, req Request) (string, error)
}

// Status is the terminal state of a batch.
type Status int

const (
	// StatusPending means the batch has not been dispatched yet.
	StatusPending Status = iota
	// StatusInFlight means a backend call for the batch is running.
	StatusInFlight
	// StatusSucceeded means a summary was produced.
	StatusSucceeded
	// StatusFailed means every attempt failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInFlight:
		return "in flight"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of summarizing one batch. Exactly one Result
// exists per planned batch on a completed run.
type Result struct {
	BatchIndex   int
	Status       Status
	Summary      string // set when Status is StatusSucceeded
	ErrorDetail  string // set when Status is StatusFailed
	Attempts     int
	EntryCount   int
	SizeExceeded bool
}
