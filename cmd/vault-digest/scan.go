package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ryosukesatoh/vault-digest/internal/batch"
	"github.com/ryosukesatoh/vault-digest/internal/collect"
	"github.com/ryosukesatoh/vault-digest/internal/config"
	"github.com/ryosukesatoh/vault-digest/internal/entry"
	"github.com/ryosukesatoh/vault-digest/internal/vault"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the entries a summarize run would cover",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		window, err := dateWindow()
		if err != nil {
			return err
		}

		scanner, err := vault.NewScanner(cfg.Vault, cfg.ExcludeDirs...)
		if err != nil {
			return err
		}
		paths, err := scanner.Scan()
		if err != nil {
			return err
		}

		parser := entry.NewParser()
		var entries []entry.Entry
		skipped := 0
		for _, path := range paths {
			e, err := parser.ParseFile(path)
			if err != nil {
				skipped++
				continue
			}
			entries = append(entries, *e)
		}

		matched := collect.Collect(entries, cfg.Hashtag, window)
		for _, e := range matched {
			date := "????-??-??"
			if e.HasDate() {
				date = e.Date.Format("2006-01-02")
			}
			fmt.Printf("%s  %-40s  %s\n", date, e.Title, e.SourcePath)
		}

		batches := batch.Plan(matched, batch.Config{
			MaxBatchTokens: cfg.Batching.MaxBatchTokens,
			MaxEntries:     cfg.Batching.MaxEntriesValue(),
		}, nil)

		fmt.Printf("\n%d of %d parsed files match #%s", len(matched), len(entries), cfg.Hashtag)
		if skipped > 0 {
			fmt.Printf(" (%d files skipped as unparseable)", skipped)
		}
		fmt.Printf("; planned into %d batch(es)\n", len(batches))
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&startFlag, "start", "", "start of date range (YYYY-MM-DD, default: last Monday)")
	scanCmd.Flags().StringVar(&endFlag, "end", "", "end of date range (YYYY-MM-DD, default: last Sunday)")
	rootCmd.AddCommand(scanCmd)
}
