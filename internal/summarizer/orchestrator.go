package summarizer

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ryosukesatoh/vault-digest/internal/batch"
	"github.com/ryosukesatoh/vault-digest/internal/events"
	"github.com/ryosukesatoh/vault-digest/internal/retry"
)

// Orchestrator drives batch summarization: it dispatches batches to the
// backend through a bounded worker pool, retries failures with backoff,
// and collects one Result per attempted batch in batch index order.
type Orchestrator struct {
	backend   Backend
	model     string
	maxTokens int
	retry     retry.Config
	workers   int
	limiter   *rate.Limiter
	obs       events.Observer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRetry overrides the default retry policy.
func WithRetry(cfg retry.Config) Option {
	return func(o *Orchestrator) {
		o.retry = cfg
	}
}

// WithWorkers bounds concurrent backend calls. Values below 1 mean
// sequential processing.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.workers = n
	}
}

// WithRateLimit caps backend requests per minute; 0 disables limiting.
// Retries count against the budget like first attempts.
func WithRateLimit(perMinute int) Option {
	return func(o *Orchestrator) {
		if perMinute > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
		}
	}
}

// WithObserver installs the event observer.
func WithObserver(obs events.Observer) Option {
	return func(o *Orchestrator) {
		o.obs = obs
	}
}

func NewOrchestrator(backend Backend, model string, maxTokens int, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:   backend,
		model:     model,
		maxTokens: maxTokens,
		retry:     retry.DefaultConfig(),
		workers:   2,
		obs:       events.Nop{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// Run summarizes every batch and returns the Results in batch index
// order regardless of completion order. A failed batch becomes a
// StatusFailed Result and never blocks the others. When the context is
// cancelled, batches that were never attempted contribute no Result and
// Run returns the completed Results alongside the context error.
func (o *Orchestrator) Run(ctx context.Context, hashtag string, batches []batch.Batch) ([]Result, error) {
	if len(batches) == 0 {
		return nil, ctx.Err()
	}

	// Indexed by batch; workers never touch each other's slot.
	slots := make([]Result, len(batches))
	done := make([]bool, len(batches))

	var wg sync.WaitGroup
	sem := make(chan struct{}, o.workers)

	for i, b := range batches {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(i int, b batch.Batch) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			if ctx.Err() != nil {
				return
			}

			if res, ok := o.summarizeBatch(ctx, hashtag, b, len(batches)); ok {
				slots[i] = res
				done[i] = true
			}
		}(i, b)
	}

	wg.Wait()

	results := make([]Result, 0, len(batches))
	for i := range slots {
		if done[i] {
			results = append(results, slots[i])
		}
	}
	return results, ctx.Err()
}

// summarizeBatch runs one batch through the retry loop and produces its
// terminal Result. A batch interrupted by cancellation yields no Result
// at all rather than a malformed one, so the second return is false.
func (o *Orchestrator) summarizeBatch(ctx context.Context, hashtag string, b batch.Batch, totalBatches int) (Result, bool) {
	o.obs.BatchStarted(b.Index, len(b.Entries))

	prompt := BuildPrompt(b, hashtag, totalBatches)
	req := Request{Prompt: prompt, Model: o.model, MaxTokens: o.maxTokens}

	var summary string
	attempts := 0

	err := retry.WithBackoff(ctx, o.retry, func(ctx context.Context) error {
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		attempts++
		text, err := o.backend.Summarize(ctx, req)
		if err != nil {
			o.obs.RetryAttempted(b.Index, attempts, err)
			return err
		}
		summary = text
		return nil
	})

	result := Result{
		BatchIndex:   b.Index,
		Attempts:     attempts,
		EntryCount:   len(b.Entries),
		SizeExceeded: b.SizeExceeded,
	}

	if err != nil {
		// Request timeouts also carry context.DeadlineExceeded, so only a
		// dead run context means the batch was interrupted rather than failed.
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return Result{}, false
		}
		result.Status = StatusFailed
		result.ErrorDetail = err.Error()
		o.obs.BatchFailed(b.Index, attempts, err)
		return result, true
	}

	result.Status = StatusSucceeded
	result.Summary = summary
	o.obs.BatchSummarized(b.Index, attempts)
	return result, true
}
