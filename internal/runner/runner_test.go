package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ryosukesatoh/vault-digest/internal/batch"
	"github.com/ryosukesatoh/vault-digest/internal/collect"
	"github.com/ryosukesatoh/vault-digest/internal/entry"
	"github.com/ryosukesatoh/vault-digest/internal/report"
	"github.com/ryosukesatoh/vault-digest/internal/summarizer"
)

// Mock implementations

type mockScanner struct {
	paths []string
	err   error
}

func (m *mockScanner) Scan() ([]string, error) {
	return m.paths, m.err
}

type mockParser struct {
	entries map[string]*entry.Entry
	errs    map[string]error
}

func (m *mockParser) ParseFile(path string) (*entry.Entry, error) {
	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	if e, ok := m.entries[path]; ok {
		return e, nil
	}
	return nil, errors.New("unexpected path: " + path)
}

type mockOrchestrator struct {
	err     error
	batches []batch.Batch
}

func (m *mockOrchestrator) Run(ctx context.Context, hashtag string, batches []batch.Batch) ([]summarizer.Result, error) {
	m.batches = batches
	if m.err != nil {
		return nil, m.err
	}
	results := make([]summarizer.Result, len(batches))
	for i, b := range batches {
		results[i] = summarizer.Result{
			BatchIndex: b.Index,
			Status:     summarizer.StatusSucceeded,
			Summary:    "summary",
			Attempts:   1,
			EntryCount: len(b.Entries),
		}
	}
	return results, nil
}

type mockWriter struct {
	written *report.Document
	err     error
}

func (m *mockWriter) Write(doc *report.Document) (string, error) {
	m.written = doc
	if m.err != nil {
		return "", m.err
	}
	return "/vault/Summaries/Week.md", nil
}

type recordingObserver struct {
	skipped []string
}

func (o *recordingObserver) FileSkipped(path string, err error) {
	o.skipped = append(o.skipped, path)
}
func (o *recordingObserver) BatchStarted(index, entries int)              {}
func (o *recordingObserver) RetryAttempted(index, attempt int, err error) {}
func (o *recordingObserver) BatchSummarized(index, attempts int)          {}
func (o *recordingObserver) BatchFailed(index, attempts int, err error)   {}

func day(d int) time.Time {
	return time.Date(2024, 12, d, 0, 0, 0, 0, time.UTC)
}

func taggedEntry(path string, date time.Time) *entry.Entry {
	return &entry.Entry{
		SourcePath: path,
		Title:      path,
		Date:       date,
		Hashtags:   map[string]struct{}{"work": {}},
		Body:       "did some work #work",
	}
}

func weekWindow() collect.Range {
	return collect.Range{Start: day(2), End: day(8)}
}

func TestRunnerFullPipeline(t *testing.T) {
	scanner := &mockScanner{paths: []string{"a.md", "b.md"}}
	parser := &mockParser{entries: map[string]*entry.Entry{
		"a.md": taggedEntry("a.md", day(3)),
		"b.md": taggedEntry("b.md", day(4)),
	}}
	orch := &mockOrchestrator{}
	writer := &mockWriter{}

	r := New("work", weekWindow(), batch.DefaultConfig(), "m", scanner, parser, orch, writer, nil)

	doc, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if doc.TotalEntries != 2 {
		t.Errorf("TotalEntries = %d, want 2", doc.TotalEntries)
	}
	if writer.written != doc {
		t.Error("Document was not written")
	}
	if len(orch.batches) != 1 {
		t.Errorf("Expected 1 planned batch, got %d", len(orch.batches))
	}
}

func TestRunnerSkipsUnparseableFiles(t *testing.T) {
	scanner := &mockScanner{paths: []string{"good.md", "bad.md"}}
	parser := &mockParser{
		entries: map[string]*entry.Entry{"good.md": taggedEntry("good.md", day(3))},
		errs:    map[string]error{"bad.md": errors.New("invalid frontmatter")},
	}
	obs := &recordingObserver{}

	r := New("work", weekWindow(), batch.DefaultConfig(), "m", scanner, parser, &mockOrchestrator{}, &mockWriter{}, obs)

	doc, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if doc.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1", doc.TotalEntries)
	}
	if len(obs.skipped) != 1 || obs.skipped[0] != "bad.md" {
		t.Errorf("Skipped files = %v, want [bad.md]", obs.skipped)
	}
}

func TestRunnerScanError(t *testing.T) {
	scanner := &mockScanner{err: errors.New("vault gone")}
	r := New("work", weekWindow(), batch.DefaultConfig(), "m", scanner, &mockParser{}, &mockOrchestrator{}, &mockWriter{}, nil)

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("Expected error when scan fails")
	}
}

func TestRunnerFiltersByTagAndWindow(t *testing.T) {
	outside := taggedEntry("old.md", day(1))
	untagged := &entry.Entry{SourcePath: "other.md", Date: day(3), Hashtags: map[string]struct{}{"play": {}}}
	inside := taggedEntry("in.md", day(5))

	orch := &mockOrchestrator{}
	r := New("work", weekWindow(), batch.DefaultConfig(), "m", nil, nil, orch, &mockWriter{}, nil)

	doc, err := r.Summarize(context.Background(), []entry.Entry{*outside, *untagged, *inside})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if doc.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1", doc.TotalEntries)
	}
	if len(orch.batches) != 1 || orch.batches[0].Entries[0].SourcePath != "in.md" {
		t.Errorf("Unexpected batches: %+v", orch.batches)
	}
}

func TestRunnerNoMatches(t *testing.T) {
	writer := &mockWriter{}
	r := New("work", weekWindow(), batch.DefaultConfig(), "m", nil, nil, &mockOrchestrator{}, writer, nil)

	doc, err := r.Summarize(context.Background(), nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if doc.TotalEntries != 0 || len(doc.Batches) != 0 {
		t.Errorf("Expected empty document, got %+v", doc)
	}
	if writer.written == nil {
		t.Error("Empty documents should still be written")
	}
}

func TestRunnerDryRun(t *testing.T) {
	r := New("work", weekWindow(), batch.DefaultConfig(), "m", nil, nil, &mockOrchestrator{}, nil, nil)

	doc, err := r.Summarize(context.Background(), []entry.Entry{*taggedEntry("a.md", day(3))})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if doc == nil {
		t.Fatal("Dry-run should still build the document")
	}
}

func TestRunnerWriteFailureReturnsDocument(t *testing.T) {
	writer := &mockWriter{err: errors.New("disk full")}
	r := New("work", weekWindow(), batch.DefaultConfig(), "m", nil, nil, &mockOrchestrator{}, writer, nil)

	doc, err := r.Summarize(context.Background(), []entry.Entry{*taggedEntry("a.md", day(3))})
	if err == nil {
		t.Fatal("Expected write error")
	}
	if doc == nil {
		t.Error("Document should be returned alongside the write error")
	}
}

func TestRunnerCancellation(t *testing.T) {
	orch := &mockOrchestrator{err: context.Canceled}
	r := New("work", weekWindow(), batch.DefaultConfig(), "m", nil, nil, orch, &mockWriter{}, nil)

	_, err := r.Summarize(context.Background(), []entry.Entry{*taggedEntry("a.md", day(3))})
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
}
