package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/ryosukesatoh/vault-digest/internal/collect"
	"github.com/ryosukesatoh/vault-digest/internal/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		runOnce := func() {
			// Each scheduled run summarizes the week that just closed.
			window := collect.PreviousWeek(time.Now())
			r, err := buildRunner(cfg, window, false)
			if err != nil {
				log.Printf("Run setup failed: %v", err)
				return
			}
			doc, err := r.Run(ctx)
			if err != nil {
				log.Printf("Scheduled run failed: %v", err)
				return
			}
			log.Printf("Summarized %d entries across %d batches (%d failed)",
				doc.TotalEntries, len(doc.Batches), doc.FailedBatches())
		}

		if cfg.RunOnStart {
			log.Println("Running initial summary...")
			runOnce()
		}

		c := cron.New()
		if _, err := c.AddFunc(cfg.Schedule, func() {
			log.Println("Cron triggered, running summary...")
			runOnce()
		}); err != nil {
			return err
		}
		c.Start()
		log.Printf("Scheduled weekly summary with cron expression: %s", cfg.Schedule)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down...", sig)

		cancel()
		c.Stop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
