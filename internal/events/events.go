// Package events decouples pipeline progress reporting from control
// flow. The pipeline calls the injected Observer at each notable point;
// the default implementation logs, tests usually install the no-op.
package events

import (
	"log/slog"
)

// Observer receives structured pipeline events. Implementations must be
// safe for concurrent use: batch events fire from worker goroutines.
type Observer interface {
	// FileSkipped fires when a vault file cannot be parsed and is
	// dropped from the run.
	FileSkipped(path string, err error)
	// BatchStarted fires when a batch moves from pending to in flight.
	BatchStarted(index, entries int)
	// RetryAttempted fires after a failed backend call that will be
	// retried. attempt is 1-based.
	RetryAttempted(index, attempt int, err error)
	// BatchSummarized fires when a batch succeeds.
	BatchSummarized(index, attempts int)
	// BatchFailed fires when a batch exhausts its retries.
	BatchFailed(index, attempts int, err error)
}

// Nop is an Observer that ignores every event.
type Nop struct{}

func (Nop) FileSkipped(string, error)      {}
func (Nop) BatchStarted(int, int)          {}
func (Nop) RetryAttempted(int, int, error) {}
func (Nop) BatchSummarized(int, int)       {}
func (Nop) BatchFailed(int, int, error)    {}

// Logger emits events through slog.
type Logger struct {
	log *slog.Logger
}

// NewLogger wraps an slog.Logger as an Observer. A nil logger uses the
// default slog logger.
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

func (l *Logger) FileSkipped(path string, err error) {
	l.log.Warn("skipping unparseable file", "path", path, "error", err)
}

func (l *Logger) BatchStarted(index, entries int) {
	l.log.Info("summarizing batch", "batch", index, "entries", entries)
}

func (l *Logger) RetryAttempted(index, attempt int, err error) {
	l.log.Warn("batch attempt failed, retrying", "batch", index, "attempt", attempt, "error", err)
}

func (l *Logger) BatchSummarized(index, attempts int) {
	l.log.Info("batch summarized", "batch", index, "attempts", attempts)
}

func (l *Logger) BatchFailed(index, attempts int, err error) {
	l.log.Error("batch failed", "batch", index, "attempts", attempts, "error", err)
}
