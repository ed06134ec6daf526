package main

import (
	"fmt"

	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/queue"
	"github.com/jonathan/job-assistant/internal/storage"
	"github.com/jonathan/job-assistant/internal/typeset"
	"github.com/jonathan/job-assistant/internal/worker"
	"github.com/spf13/cobra"
)

var workerConcurrency int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the resume compile worker",
	Long:  `Consume compile jobs from Redis, typeset each resume variant to PDF and upload it to storage.`,
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 0, "Number of consumers (overrides WORKER_CONCURRENCY)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.RequireWorker(); err != nil {
		return err
	}
	if workerConcurrency > 0 {
		cfg.WorkerConcurrency = workerConcurrency
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	compiler, err := typeset.New(cfg.Typesetter, cfg.CompileTimeout)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	q, err := queue.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer func() { _ = q.Close() }()

	uploader := storage.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.StorageBucket)

	w := worker.New(worker.Config{
		Concurrency: cfg.WorkerConcurrency,
		Pages:       typeset.PageCounter{},
	}, database, q, compiler, uploader, logger)
	return w.Run(ctx)
}
