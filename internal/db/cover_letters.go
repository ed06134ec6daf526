package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const coverLetterColumns = `id, job_id, text, pdf_path, created_at, updated_at`

func scanCoverLetter(row pgx.Row) (*CoverLetter, error) {
	var c CoverLetter
	if err := row.Scan(&c.ID, &c.JobID, &c.Text, &c.PDFPath, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCoverLetter retrieves the cover letter for a job. Returns nil, nil when none exists.
// Callers check job ownership first.
func (db *DB) GetCoverLetter(ctx context.Context, jobID uuid.UUID) (*CoverLetter, error) {
	c, err := scanCoverLetter(db.pool.QueryRow(ctx,
		`SELECT `+coverLetterColumns+` FROM cover_letters WHERE job_id = $1`,
		jobID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cover letter: %w", err)
	}
	return c, nil
}

// UpsertCoverLetter stores generated text as the job's cover letter.
func (db *DB) UpsertCoverLetter(ctx context.Context, jobID uuid.UUID, text string) (*CoverLetter, error) {
	c, err := scanCoverLetter(db.pool.QueryRow(ctx,
		`INSERT INTO cover_letters (job_id, text)
		 VALUES ($1, $2)
		 ON CONFLICT (job_id) DO UPDATE SET text = EXCLUDED.text, updated_at = NOW()
		 RETURNING `+coverLetterColumns,
		jobID, text,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cover letter: %w", err)
	}
	return c, nil
}

// UpdateCoverLetterText replaces the text of an existing cover letter.
// Returns nil, nil when the job has no cover letter.
func (db *DB) UpdateCoverLetterText(ctx context.Context, jobID uuid.UUID, text string) (*CoverLetter, error) {
	c, err := scanCoverLetter(db.pool.QueryRow(ctx,
		`UPDATE cover_letters SET text = $1, updated_at = NOW() WHERE job_id = $2
		 RETURNING `+coverLetterColumns,
		text, jobID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update cover letter: %w", err)
	}
	return c, nil
}
