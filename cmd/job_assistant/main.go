// Package main provides the entry point for the job assistant API, compile worker and tools.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "job_assistant",
	Short:         "Job application assistant",
	Long:          "Job assistant tracks job applications, analyzes job descriptions, tailors LaTeX resumes and drafts cover letters and outreach messages.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newLogger(cfg *config.Config) *logging.Logger {
	if cfg.IsProduction() {
		return logging.New(cfg.LogLevel)
	}
	return logging.NewDevelopment(cfg.LogLevel)
}
