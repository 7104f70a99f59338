// Package report aggregates per-batch summarization results into the
// final summary note and persists it.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ryosukesatoh/vault-digest/internal/summarizer"
)

// Document is the final aggregated artifact for one pipeline run.
// Batches are held in ascending batch index order.
type Document struct {
	RunID        string
	Hashtag      string
	Start        time.Time
	End          time.Time
	Model        string
	TotalEntries int
	Batches      []summarizer.Result
	GeneratedAt  time.Time
}

// Build assembles a Document from batch results. Results are sorted by
// batch index so the output order never depends on completion order,
// and failed batches count toward TotalEntries for auditability.
func Build(hashtag string, start, end time.Time, model string, results []summarizer.Result) *Document {
	ordered := make([]summarizer.Result, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].BatchIndex < ordered[j].BatchIndex
	})

	total := 0
	for _, r := range ordered {
		total += r.EntryCount
	}

	return &Document{
		RunID:        uuid.NewString(),
		Hashtag:      strings.TrimPrefix(hashtag, "#"),
		Start:        start,
		End:          end,
		Model:        model,
		TotalEntries: total,
		Batches:      ordered,
		GeneratedAt:  time.Now(),
	}
}

// FailedBatches returns how many batches ended in failure.
func (d *Document) FailedBatches() int {
	n := 0
	for _, r := range d.Batches {
		if r.Status == summarizer.StatusFailed {
			n++
		}
	}
	return n
}

// Title returns the human-facing document title.
func (d *Document) Title() string {
	return fmt.Sprintf("Week Summary - #%s (%s)", d.Hashtag, d.rangeLabel())
}

func (d *Document) rangeLabel() string {
	switch {
	case d.Start.IsZero() && d.End.IsZero():
		return "all dates"
	case d.End.IsZero():
		return "from " + d.Start.Format("2006-01-02")
	case d.Start.IsZero():
		return "until " + d.End.Format("2006-01-02")
	default:
		return d.Start.Format("2006-01-02") + " to " + d.End.Format("2006-01-02")
	}
}

// frontmatter is marshaled at the top of the rendered note. Field order
// is fixed by the struct so identical runs render identically.
type frontmatter struct {
	Title        string `yaml:"title"`
	Hashtag      string `yaml:"hashtag"`
	Start        string `yaml:"start_date,omitempty"`
	End          string `yaml:"end_date,omitempty"`
	Model        string `yaml:"model"`
	TotalEntries int    `yaml:"total_entries"`
	BatchCount   int    `yaml:"batch_count"`
	FailedCount  int    `yaml:"failed_batches"`
	RunID        string `yaml:"run_id"`
	GeneratedAt  string `yaml:"generated_at"`
}

// Render produces the complete markdown note. Succeeded batches appear
// as summary sections in batch index order; failed batches keep an
// explicit placeholder so partial failure is visible, never hidden.
func (d *Document) Render() string {
	fm := frontmatter{
		Title:        d.Title(),
		Hashtag:      d.Hashtag,
		Model:        d.Model,
		TotalEntries: d.TotalEntries,
		BatchCount:   len(d.Batches),
		FailedCount:  d.FailedBatches(),
		RunID:        d.RunID,
		GeneratedAt:  d.GeneratedAt.Format(time.RFC3339),
	}
	if !d.Start.IsZero() {
		fm.Start = d.Start.Format("2006-01-02")
	}
	if !d.End.IsZero() {
		fm.End = d.End.Format("2006-01-02")
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	if data, err := yaml.Marshal(fm); err == nil {
		sb.Write(data)
	}
	sb.WriteString("---\n\n")

	fmt.Fprintf(&sb, "# %s\n\n", d.Title())

	if len(d.Batches) == 0 {
		sb.WriteString("No matching entries were found for this period.\n")
		return sb.String()
	}

	multi := len(d.Batches) > 1
	for _, r := range d.Batches {
		if multi {
			fmt.Fprintf(&sb, "## Batch %d\n\n", r.BatchIndex+1)
		}

		if r.SizeExceeded {
			sb.WriteString("_Note: this entry exceeded the configured batch size budget and was summarized unsplit._\n\n")
		}

		switch r.Status {
		case summarizer.StatusSucceeded:
			sb.WriteString(strings.TrimSpace(r.Summary))
			sb.WriteString("\n\n")
		case summarizer.StatusFailed:
			fmt.Fprintf(&sb, "> Summarization failed after %d attempt(s): %s\n", r.Attempts, r.ErrorDetail)
			fmt.Fprintf(&sb, "> %d entries from this batch are not included in the summary.\n\n", r.EntryCount)
		}
	}

	sb.WriteString("## Summary Statistics\n\n")
	fmt.Fprintf(&sb, "- **Total Entries**: %d\n", d.TotalEntries)
	fmt.Fprintf(&sb, "- **Batches Processed**: %d\n", len(d.Batches))
	if failed := d.FailedBatches(); failed > 0 {
		fmt.Fprintf(&sb, "- **Failed Batches**: %d\n", failed)
	}
	fmt.Fprintf(&sb, "- **Model Used**: %s\n", d.Model)

	return sb.String()
}
