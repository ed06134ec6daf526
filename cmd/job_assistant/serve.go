package main

import (
	"fmt"

	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/drafting"
	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/jd"
	"github.com/jonathan/job-assistant/internal/latex"
	"github.com/jonathan/job-assistant/internal/llm"
	"github.com/jonathan/job-assistant/internal/queue"
	"github.com/jonathan/job-assistant/internal/server"
	"github.com/jonathan/job-assistant/internal/server/ratelimit"
	"github.com/jonathan/job-assistant/internal/storage"
	"github.com/spf13/cobra"
)

var (
	servePort      int
	serveMigrate   bool
	serveWhitelist []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the job, resume, cover letter and outreach endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply the database schema on startup")
	serveCmd.Flags().StringSliceVar(&serveWhitelist, "rate-limit-whitelist", nil, "Client IPs exempt from rate limiting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.RequireAPI(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signalContext()
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
	}

	deps := server.Deps{
		Store:     database,
		Auth:      server.NewJWTService(cfg.JWT).AsTokenValidator(),
		Parser:    latex.NewParser(nil),
		Rebuilder: latex.Rebuilder{},
		Fetcher:   fetch.New(fetch.DefaultOptions()),
		Logger:    logger,
	}

	// The API still serves without Redis; variants are saved but not compiled.
	if q, err := queue.Connect(ctx, cfg.RedisURL); err != nil {
		logger.Warn("compile queue unavailable, PDF compilation disabled", "error", err)
	} else {
		defer func() { _ = q.Close() }()
		deps.Queue = q
	}

	if cfg.StorageEnabled() {
		deps.Signer = storage.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.StorageBucket)
	} else {
		logger.Warn("storage not configured, PDF links disabled")
	}

	var oracle jd.SpanOracle
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		oracle = jd.NewLLMOracle(client)
		deps.Drafter = drafting.New(client)
	} else {
		logger.Warn("GEMINI_API_KEY not set, using rule-based segmentation and disabling drafting")
	}
	deps.Analyzer = jd.NewAnalyzer(oracle, logger)

	srv, err := server.New(server.Options{
		Port:        servePort,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   ratelimit.NewConfig(cfg.RateLimitPerMinute, cfg.RateLimitLLMPerHour, serveWhitelist),
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(ctx)
}
