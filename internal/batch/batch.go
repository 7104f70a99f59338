// Package batch partitions an ordered entry sequence into size-bounded
// batches for summarization. Packing is greedy and single-pass: entries
// stay in chronological order, so no reordering for tighter packing is
// attempted.
package batch

import (
	"time"

	"github.com/ryosukesatoh/vault-digest/internal/entry"
)

// Batch is an ordered, size-bounded group of entries summarized in one
// backend call. Index is 0-based and assigned in planning order.
type Batch struct {
	Index         int
	Entries       []entry.Entry
	EstimatedSize int
	// SizeExceeded marks a single entry whose own estimate exceeds the
	// budget. The batch is summarized normally; the flag is surfaced in
	// the final document only.
	SizeExceeded bool
}

// DateRange returns the earliest and latest entry dates in the batch.
// Undated entries are ignored; both returns are zero when no entry
// carries a date.
func (b Batch) DateRange() (time.Time, time.Time) {
	var start, end time.Time
	for _, e := range b.Entries {
		if !e.HasDate() {
			continue
		}
		if start.IsZero() || e.Date.Before(start) {
			start = e.Date
		}
		if end.IsZero() || e.Date.After(end) {
			end = e.Date
		}
	}
	return start, end
}

// Estimator maps an entry to its estimated size in tokens.
type Estimator func(entry.Entry) int

// entryOverhead accounts for the per-entry prompt framing (date, title,
// separators) added around the body text.
const entryOverhead = 50

// EstimateTokens is the default estimator: roughly one token per four
// characters of title plus body, plus fixed formatting overhead.
func EstimateTokens(e entry.Entry) int {
	return (len(e.Title)+len(e.Body))/4 + entryOverhead
}

// Config bounds batch sizes.
type Config struct {
	// MaxBatchTokens is the estimated token budget per batch.
	MaxBatchTokens int
	// MaxEntries caps entries per batch; 0 means unlimited.
	MaxEntries int
}

// DefaultConfig returns the batching limits used when the config file
// does not override them.
func DefaultConfig() Config {
	return Config{MaxBatchTokens: 4000, MaxEntries: 20}
}

// Plan partitions entries into batches. Concatenating the batches'
// entries in order reproduces the input exactly; a single entry larger
// than the budget becomes its own flagged batch rather than being
// truncated. Zero entries yields zero batches.
func Plan(entries []entry.Entry, cfg Config, est Estimator) []Batch {
	if est == nil {
		est = EstimateTokens
	}

	var batches []Batch
	var current []entry.Entry
	currentSize := 0

	flush := func(exceeded bool) {
		if len(current) == 0 {
			return
		}
		batches = append(batches, Batch{
			Index:         len(batches),
			Entries:       current,
			EstimatedSize: currentSize,
			SizeExceeded:  exceeded,
		})
		current = nil
		currentSize = 0
	}

	for _, e := range entries {
		size := est(e)

		if size > cfg.MaxBatchTokens {
			// Unsplittable oversized entry: close the running batch and
			// pass the entry through alone, flagged.
			flush(false)
			current = []entry.Entry{e}
			currentSize = size
			flush(true)
			continue
		}

		full := currentSize+size > cfg.MaxBatchTokens ||
			(cfg.MaxEntries > 0 && len(current) >= cfg.MaxEntries)
		if len(current) > 0 && full {
			flush(false)
		}

		current = append(current, e)
		currentSize += size
	}
	flush(false)

	return batches
}
