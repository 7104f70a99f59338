package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Writer persists rendered summary documents into an output directory.
type Writer struct {
	outputDir string
}

// NewWriter creates the output directory if needed.
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("report: failed to create output dir %s: %w", outputDir, err)
	}
	return &Writer{outputDir: outputDir}, nil
}

// Filename derives the note filename from the document's week and
// hashtag. Re-running the same week overwrites the previous note, which
// keeps runs idempotent.
func (w *Writer) Filename(doc *Document) string {
	date := doc.GeneratedAt
	if !doc.Start.IsZero() {
		date = doc.Start
	}
	tag := unsafeFilenameChars.ReplaceAllString(doc.Hashtag, "_")
	return fmt.Sprintf("Week-%s-%s.md", date.Format("2006-01-02"), tag)
}

// Write renders and persists the document, returning the written path.
// A failed write is surfaced to the caller; the document itself remains
// available upstream for inspection or retry.
func (w *Writer) Write(doc *Document) (string, error) {
	path := filepath.Join(w.outputDir, w.Filename(doc))
	if err := os.WriteFile(path, []byte(doc.Render()), 0o644); err != nil {
		return "", fmt.Errorf("report: failed to write summary %s: %w", path, err)
	}
	return path, nil
}
