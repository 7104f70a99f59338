package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ryosukesatoh/vault-digest/internal/config"
)

var dryRun bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Run the summarization pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		window, err := dateWindow()
		if err != nil {
			return err
		}

		r, err := buildRunner(cfg, window, dryRun)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		doc, err := r.Run(ctx)
		if err != nil {
			// A failed write still yields the document; print it so no
			// work is lost.
			if doc != nil {
				fmt.Fprintln(os.Stderr, "write failed, printing summary to stdout:")
				fmt.Println(doc.Render())
			}
			return err
		}

		if dryRun {
			fmt.Println(doc.Render())
			return nil
		}

		log.Printf("Summarized %d entries across %d batches (%d failed)",
			doc.TotalEntries, len(doc.Batches), doc.FailedBatches())
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&startFlag, "start", "", "start of date range (YYYY-MM-DD, default: last Monday)")
	summarizeCmd.Flags().StringVar(&endFlag, "end", "", "end of date range (YYYY-MM-DD, default: last Sunday)")
	summarizeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the summary to stdout instead of writing it")
	rootCmd.AddCommand(summarizeCmd)
}
