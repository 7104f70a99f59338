// Package collect filters parsed entries down to the set a single
// summary run covers: one hashtag, one date window, chronological order.
package collect

import (
	"sort"
	"time"

	"github.com/ryosukesatoh/vault-digest/internal/entry"
)

// Range is an inclusive date window. A zero Start or End means
// unbounded on that side.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window. Undated entries
// (zero t) always pass; the original notes often carry no date and
// excluding them would silently drop content.
func (r Range) Contains(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// IsZero reports whether the range is unbounded on both sides.
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// PreviousWeek returns the Monday-to-Sunday week before the given time,
// the default window for a weekly summary run. End is the last instant
// of Sunday so entries whose dates carry a time-of-day still fall
// inside their week.
func PreviousWeek(now time.Time) Range {
	day := now
	// Walk back to this week's Monday, then one more week.
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	monday := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	monday = monday.AddDate(0, 0, -offset-7)
	sunday := monday.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return Range{Start: monday, End: sunday}
}

// Collect returns the entries matching the hashtag and window, sorted
// ascending by date with ties broken by source path. Undated entries
// sort before dated ones. The input is not modified; an empty result is
// a valid outcome, not an error.
func Collect(entries []entry.Entry, hashtag string, window Range) []entry.Entry {
	var matched []entry.Entry
	for _, e := range entries {
		if !e.HasTag(hashtag) {
			continue
		}
		if !window.Contains(e.Date) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.Before(matched[j].Date)
		}
		return matched[i].SourcePath < matched[j].SourcePath
	})

	return matched
}
