package collect

import (
	"testing"
	"time"

	"github.com/ryosukesatoh/vault-digest/internal/entry"
)

func tagged(path string, date time.Time, tags ...string) entry.Entry {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return entry.Entry{SourcePath: path, Date: date, Hashtags: set}
}

func day(d int) time.Time {
	return time.Date(2024, 12, d, 0, 0, 0, 0, time.UTC)
}

func TestCollectHashtagFilter(t *testing.T) {
	entries := []entry.Entry{
		tagged("work.md", day(1), "work"),
		tagged("meeting.md", day(2), "meeting"),
	}

	got := Collect(entries, "#meeting", Range{})
	if len(got) != 1 {
		t.Fatalf("Expected exactly 1 entry, got %d", len(got))
	}
	if got[0].SourcePath != "meeting.md" {
		t.Errorf("Expected meeting.md, got %s", got[0].SourcePath)
	}
}

func TestCollectDateWindow(t *testing.T) {
	entries := []entry.Entry{
		tagged("before.md", day(1), "work"),
		tagged("start.md", day(2), "work"),
		tagged("mid.md", day(5), "work"),
		tagged("end.md", day(8), "work"),
		tagged("after.md", day(9), "work"),
	}

	got := Collect(entries, "work", Range{Start: day(2), End: day(8)})
	if len(got) != 3 {
		t.Fatalf("Expected 3 entries in window, got %d", len(got))
	}
	for _, e := range got {
		if e.SourcePath == "before.md" || e.SourcePath == "after.md" {
			t.Errorf("Entry %s should be outside the inclusive window", e.SourcePath)
		}
	}
}

func TestCollectUnboundedSides(t *testing.T) {
	entries := []entry.Entry{
		tagged("a.md", day(1), "work"),
		tagged("b.md", day(5), "work"),
		tagged("c.md", day(9), "work"),
	}

	onlyStart := Collect(entries, "work", Range{Start: day(5)})
	if len(onlyStart) != 2 {
		t.Errorf("Start-only range: expected 2 entries, got %d", len(onlyStart))
	}

	onlyEnd := Collect(entries, "work", Range{End: day(5)})
	if len(onlyEnd) != 2 {
		t.Errorf("End-only range: expected 2 entries, got %d", len(onlyEnd))
	}
}

func TestCollectOrdering(t *testing.T) {
	entries := []entry.Entry{
		tagged("z.md", day(3), "work"),
		tagged("b.md", day(1), "work"),
		tagged("a.md", day(3), "work"),
		tagged("undated.md", time.Time{}, "work"),
	}

	got := Collect(entries, "work", Range{})
	want := []string{"undated.md", "b.md", "a.md", "z.md"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i, e := range got {
		if e.SourcePath != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], e.SourcePath)
		}
	}
}

func TestCollectEmptyResult(t *testing.T) {
	entries := []entry.Entry{tagged("a.md", day(1), "work")}
	got := Collect(entries, "vacation", Range{})
	if len(got) != 0 {
		t.Fatalf("Expected empty result, got %d entries", len(got))
	}
}

func TestCollectFinalSundayWithTimeOfDay(t *testing.T) {
	// Frontmatter dates can carry a time-of-day; an entry written Sunday
	// afternoon still belongs to the week that Sunday closes.
	sundayAfternoon := time.Date(2024, 12, 8, 14, 30, 0, 0, time.UTC)
	entries := []entry.Entry{tagged("sunday.md", sundayAfternoon, "work")}

	window := PreviousWeek(time.Date(2024, 12, 11, 9, 0, 0, 0, time.UTC))
	got := Collect(entries, "work", window)
	if len(got) != 1 {
		t.Fatalf("Entry dated %v should fall inside window %v..%v", sundayAfternoon, window.Start, window.End)
	}
}

func TestPreviousWeek(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "wednesday",
			now:       time.Date(2024, 12, 11, 15, 30, 0, 0, time.UTC),
			wantStart: time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:      "monday",
			now:       time.Date(2024, 12, 9, 8, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:      "sunday",
			now:       time.Date(2024, 12, 8, 23, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PreviousWeek(tt.now)
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", got.Start, tt.wantStart)
			}
			if !got.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v, want %v", got.End, tt.wantEnd)
			}
		})
	}
}
