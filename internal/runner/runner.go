package runner

import (
	"context"
	"fmt"

	"github.com/ryosukesatoh/vault-digest/internal/batch"
	"github.com/ryosukesatoh/vault-digest/internal/collect"
	"github.com/ryosukesatoh/vault-digest/internal/entry"
	"github.com/ryosukesatoh/vault-digest/internal/events"
	"github.com/ryosukesatoh/vault-digest/internal/report"
	"github.com/ryosukesatoh/vault-digest/internal/summarizer"
)

// Scanner yields candidate note paths under the vault root.
type Scanner interface {
	Scan() ([]string, error)
}

// Parser parses one markdown file into an entry.
type Parser interface {
	ParseFile(path string) (*entry.Entry, error)
}

// Orchestrator summarizes planned batches.
type Orchestrator interface {
	Run(ctx context.Context, hashtag string, batches []batch.Batch) ([]summarizer.Result, error)
}

// Writer persists the final document.
type Writer interface {
	Write(doc *report.Document) (string, error)
}

// Runner orchestrates the scan -> parse -> collect -> plan -> summarize
// -> aggregate -> write pipeline. Every run builds a fresh in-memory
// graph; nothing is shared across runs.
type Runner struct {
	hashtag   string
	window    collect.Range
	batching  batch.Config
	estimator batch.Estimator
	model     string

	scanner Scanner
	parser  Parser
	orch    Orchestrator
	writer  Writer // nil disables writing (dry-run)
	obs     events.Observer
}

func New(hashtag string, window collect.Range, batching batch.Config, model string,
	scanner Scanner, parser Parser, orch Orchestrator, writer Writer, obs events.Observer) *Runner {
	if obs == nil {
		obs = events.Nop{}
	}
	return &Runner{
		hashtag:   hashtag,
		window:    window,
		batching:  batching,
		estimator: batch.EstimateTokens,
		model:     model,
		scanner:   scanner,
		parser:    parser,
		orch:      orch,
		writer:    writer,
		obs:       obs,
	}
}

// Run executes the full pipeline once. A file that fails to parse is
// skipped and reported through the observer; only a cancelled run or a
// failed final write produce an error. On a write failure the document
// is still returned so the caller can inspect or retry it.
func (r *Runner) Run(ctx context.Context) (*report.Document, error) {
	paths, err := r.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("runner: scan failed: %w", err)
	}

	entries := make([]entry.Entry, 0, len(paths))
	for _, path := range paths {
		e, err := r.parser.ParseFile(path)
		if err != nil {
			r.obs.FileSkipped(path, err)
			continue
		}
		entries = append(entries, *e)
	}

	return r.Summarize(ctx, entries)
}

// Summarize runs the core pipeline over already-parsed entries:
// filtering, batch planning, orchestration, and aggregation. It is the
// pure entry point the file-walking Run wraps.
func (r *Runner) Summarize(ctx context.Context, entries []entry.Entry) (*report.Document, error) {
	matched := collect.Collect(entries, r.hashtag, r.window)
	batches := batch.Plan(matched, r.batching, r.estimator)

	results, err := r.orch.Run(ctx, r.hashtag, batches)
	if err != nil {
		return nil, fmt.Errorf("runner: summarization cancelled: %w", err)
	}

	doc := report.Build(r.hashtag, r.window.Start, r.window.End, r.model, results)

	if r.writer != nil {
		if _, err := r.writer.Write(doc); err != nil {
			return doc, fmt.Errorf("runner: write failed: %w", err)
		}
	}

	return doc, nil
}
