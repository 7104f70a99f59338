package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryosukesatoh/vault-digest/internal/batch"
	"github.com/ryosukesatoh/vault-digest/internal/collect"
	"github.com/ryosukesatoh/vault-digest/internal/config"
	"github.com/ryosukesatoh/vault-digest/internal/entry"
	"github.com/ryosukesatoh/vault-digest/internal/events"
	"github.com/ryosukesatoh/vault-digest/internal/report"
	"github.com/ryosukesatoh/vault-digest/internal/retry"
	"github.com/ryosukesatoh/vault-digest/internal/runner"
	"github.com/ryosukesatoh/vault-digest/internal/summarizer"
	"github.com/ryosukesatoh/vault-digest/internal/vault"
)

var (
	configPath string
	startFlag  string
	endFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "vault-digest",
	Short: "Weekly hashtag summaries for markdown note vaults",
	Long: `vault-digest scans a markdown vault for journal entries tagged with a
hashtag, batches them, summarizes each batch with an LLM backend, and
writes one aggregated weekly summary note back into the vault.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "vault-digest.yaml", "path to config file")
}

// dateWindow resolves the --start/--end flags, defaulting to the
// previous Monday-to-Sunday week.
func dateWindow() (collect.Range, error) {
	if startFlag == "" && endFlag == "" {
		return collect.PreviousWeek(time.Now()), nil
	}

	var window collect.Range
	if startFlag != "" {
		t, err := time.Parse("2006-01-02", startFlag)
		if err != nil {
			return collect.Range{}, fmt.Errorf("invalid --start date %q: %w", startFlag, err)
		}
		window.Start = t
	}
	if endFlag != "" {
		t, err := time.Parse("2006-01-02", endFlag)
		if err != nil {
			return collect.Range{}, fmt.Errorf("invalid --end date %q: %w", endFlag, err)
		}
		// The end date is inclusive of the whole day, so entries whose
		// dates carry a time-of-day are not cut off at midnight.
		window.End = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return window, nil
}

// buildRunner wires the full pipeline from configuration. With dryRun
// set, the document is produced but nothing is written.
func buildRunner(cfg *config.Config, window collect.Range, dryRun bool) (*runner.Runner, error) {
	scanner, err := vault.NewScanner(cfg.Vault, cfg.ExcludeDirs...)
	if err != nil {
		return nil, err
	}

	backend, err := summarizer.New(cfg)
	if err != nil {
		return nil, err
	}

	baseDelay, err := cfg.Retry.BaseDelayDuration()
	if err != nil {
		return nil, err
	}

	obs := events.NewLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	orch := summarizer.NewOrchestrator(backend, cfg.Summarizer.Model, cfg.Summarizer.MaxTokens,
		summarizer.WithRetry(retry.Config{MaxRetries: cfg.Retry.MaxRetries, BaseDelay: baseDelay}),
		summarizer.WithWorkers(cfg.Concurrency),
		summarizer.WithRateLimit(cfg.RateLimit),
		summarizer.WithObserver(obs),
	)

	var writer runner.Writer
	if !dryRun {
		w, err := report.NewWriter(outputPath(cfg))
		if err != nil {
			return nil, err
		}
		writer = w
	}

	batching := batch.Config{
		MaxBatchTokens: cfg.Batching.MaxBatchTokens,
		MaxEntries:     cfg.Batching.MaxEntriesValue(),
	}

	return runner.New(cfg.Hashtag, window, batching, cfg.Summarizer.Model,
		scanner, entry.NewParser(), orch, writer, obs), nil
}

// outputPath resolves the output directory relative to the vault when
// it is not absolute, so summaries land inside the vault by default.
func outputPath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.OutputDir) {
		return cfg.OutputDir
	}
	return filepath.Join(cfg.Vault, cfg.OutputDir)
}
