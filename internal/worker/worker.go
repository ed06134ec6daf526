// Package worker compiles queued resume variants into PDFs.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/logging"
	"github.com/jonathan/job-assistant/internal/queue"
	"github.com/jonathan/job-assistant/internal/storage"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPollTimeout is how long a consumer blocks on an empty queue.
	DefaultPollTimeout = 5 * time.Second
	pdfContentType     = "application/pdf"
)

// Store is the persistence the worker needs. *db.DB implements it.
type Store interface {
	GetResumeVariantByID(ctx context.Context, variantID uuid.UUID) (*db.ResumeVariant, error)
	SetVariantPDFPath(ctx context.Context, variantID uuid.UUID, path string) error
	LogAction(ctx context.Context, userID uuid.UUID, jobID *uuid.UUID, actionType string, meta map[string]any) error
}

// Source yields compile jobs. *queue.Queue implements it.
type Source interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.CompileJob, error)
}

// Compiler turns LaTeX into a PDF. *typeset.Compiler implements it.
type Compiler interface {
	Compile(ctx context.Context, latex string) ([]byte, error)
}

// Uploader stores files. *storage.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
}

// PageCounter counts PDF pages. typeset.PageCounter implements it.
type PageCounter interface {
	CountPages(ctx context.Context, pdf []byte) (int, error)
}

// Config holds worker settings.
type Config struct {
	Concurrency int
	PollTimeout time.Duration
	// Pages, when set, is used to warn about resumes longer than MaxPages.
	Pages    PageCounter
	MaxPages int
}

// Worker consumes compile jobs with a fixed number of consumers.
type Worker struct {
	store    Store
	source   Source
	compiler Compiler
	uploader Uploader
	config   Config
	logger   *logging.Logger
}

// New creates a worker. Concurrency below 1 is treated as 1.
func New(cfg Config, store Store, source Source, compiler Compiler, uploader Uploader, logger *logging.Logger) *Worker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	return &Worker{
		store:    store,
		source:   source,
		compiler: compiler,
		uploader: uploader,
		config:   cfg,
		logger:   logging.OrNop(logger).Named("worker"),
	}
}

// Run starts the consumers and blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker starting", "concurrency", w.config.Concurrency)

	g, gCtx := errgroup.WithContext(ctx)
	for i := range w.config.Concurrency {
		g.Go(func() error {
			return w.consume(gCtx, i)
		})
	}

	err := g.Wait()
	w.logger.Info("worker stopped")
	return err
}

// consume processes jobs until ctx is done. Queue errors are retried with
// exponential backoff; job failures are logged and the job is dropped.
func (w *Worker) consume(ctx context.Context, id int) error {
	logger := w.logger.With("consumer", id)
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return nil
		}

		job, err := w.source.Dequeue(ctx, w.config.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var malformed *queue.MalformedJobError
			if errors.As(err, &malformed) {
				logger.Warn("dropping malformed compile job", "payload", malformed.Payload, "error", err)
				continue
			}
			wait := bo.NextBackOff()
			logger.Error("failed to read compile queue", "error", err, "retry_in", wait)
			if !sleep(ctx, wait) {
				return nil
			}
			continue
		}
		bo.Reset()

		if job == nil {
			continue
		}

		start := time.Now()
		if err := w.Process(ctx, job.VariantID); err != nil {
			logger.Error("compile job failed", "variant_id", job.VariantID, "error", err)
			continue
		}
		logger.Info("compiled resume", "variant_id", job.VariantID, "duration", time.Since(start))
	}
}

// Process compiles one variant, uploads the PDF and records its path.
func (w *Worker) Process(ctx context.Context, variantID uuid.UUID) error {
	variant, err := w.store.GetResumeVariantByID(ctx, variantID)
	if err != nil {
		return fmt.Errorf("failed to load variant: %w", err)
	}
	if variant == nil {
		return fmt.Errorf("variant %s no longer exists", variantID)
	}

	pdf, err := w.compiler.Compile(ctx, variant.LaTeX)
	if err != nil {
		return fmt.Errorf("failed to compile variant: %w", err)
	}

	meta := map[string]any{
		"variant_id": variant.ID.String(),
		"pdf_bytes":  len(pdf),
	}
	if pages, ok := w.countPages(ctx, variant.ID, pdf); ok {
		meta["pages"] = pages
	}

	path := storage.ResumePDFPath(variant.ID)
	if err := w.uploader.Upload(ctx, path, pdf, pdfContentType); err != nil {
		return fmt.Errorf("failed to upload PDF: %w", err)
	}

	if err := w.store.SetVariantPDFPath(ctx, variant.ID, path); err != nil {
		return fmt.Errorf("failed to record PDF path: %w", err)
	}

	if err := w.store.LogAction(ctx, variant.UserID, &variant.JobID, db.ActionResumeCompiled, meta); err != nil {
		w.logger.Warn("failed to log action", "type", db.ActionResumeCompiled, "error", err)
	}
	return nil
}

// countPages reports the page count when a counter is configured. Counting
// failures are logged and never fail the job.
func (w *Worker) countPages(ctx context.Context, variantID uuid.UUID, pdf []byte) (int, bool) {
	if w.config.Pages == nil {
		return 0, false
	}
	pages, err := w.config.Pages.CountPages(ctx, pdf)
	if err != nil {
		w.logger.Debug("could not count PDF pages", "variant_id", variantID, "error", err)
		return 0, false
	}
	if pages > w.config.MaxPages {
		w.logger.Warn("compiled resume exceeds page limit", "variant_id", variantID, "pages", pages, "max_pages", w.config.MaxPages)
	}
	return pages, true
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
