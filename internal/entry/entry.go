package entry

import (
	"strings"
	"time"
)

// Entry represents a single parsed journal note. Entries are immutable
// once parsed; identity is (SourcePath, Date).
type Entry struct {
	SourcePath  string
	Title       string
	Date        time.Time // zero when no date could be extracted
	Hashtags    map[string]struct{}
	Body        string
	Frontmatter map[string]any
	Raw         string
}

// HasTag reports whether the entry carries the given hashtag. A leading
// '#' on the argument is ignored, so "#work" and "work" are equivalent.
func (e Entry) HasTag(tag string) bool {
	_, ok := e.Hashtags[strings.TrimPrefix(tag, "#")]
	return ok
}

// HasDate reports whether a date was extracted for this entry.
func (e Entry) HasDate() bool {
	return !e.Date.IsZero()
}
