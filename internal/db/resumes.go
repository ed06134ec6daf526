package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/job-assistant/internal/types"
)

// -----------------------------------------------------------------------------
// Master resume
// -----------------------------------------------------------------------------

func scanMaster(row pgx.Row) (*ResumeMaster, error) {
	var m ResumeMaster
	var parsedJSON []byte
	if err := row.Scan(&m.ID, &m.UserID, &m.LaTeX, &parsedJSON, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Parsed = types.NewParsedResume()
	if len(parsedJSON) > 0 {
		if err := json.Unmarshal(parsedJSON, &m.Parsed); err != nil {
			return nil, fmt.Errorf("failed to decode parsed_json: %w", err)
		}
	}
	return &m, nil
}

// GetResumeMaster retrieves the user's master resume. Returns nil, nil when none exists.
func (db *DB) GetResumeMaster(ctx context.Context, userID uuid.UUID) (*ResumeMaster, error) {
	m, err := scanMaster(db.pool.QueryRow(ctx,
		`SELECT id, user_id, latex_blob, parsed_json, created_at, updated_at
		 FROM resume_master WHERE user_id = $1`,
		userID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get master resume: %w", err)
	}
	return m, nil
}

// UpsertResumeMaster stores the user's master resume, replacing any previous one.
// created reports whether a new row was inserted.
func (db *DB) UpsertResumeMaster(ctx context.Context, userID uuid.UUID, latex string, parsed types.ParsedResume) (master *ResumeMaster, created bool, err error) {
	parsedJSON, err := json.Marshal(parsed)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal parsed resume: %w", err)
	}

	var m ResumeMaster
	var stored []byte
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resume_master (user_id, latex_blob, parsed_json)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
		     latex_blob = EXCLUDED.latex_blob,
		     parsed_json = EXCLUDED.parsed_json,
		     updated_at = NOW()
		 RETURNING id, user_id, latex_blob, parsed_json, created_at, updated_at, (xmax = 0)`,
		userID, latex, parsedJSON,
	).Scan(&m.ID, &m.UserID, &m.LaTeX, &stored, &m.CreatedAt, &m.UpdatedAt, &created)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert master resume: %w", err)
	}
	m.Parsed = parsed
	return &m, created, nil
}

// -----------------------------------------------------------------------------
// Resume variants
// -----------------------------------------------------------------------------

const variantColumns = `id, user_id, job_id, latex_blob, pdf_path, diff_json, created_at, updated_at`

func scanVariant(row pgx.Row) (*ResumeVariant, error) {
	var v ResumeVariant
	var diffJSON []byte
	if err := row.Scan(&v.ID, &v.UserID, &v.JobID, &v.LaTeX, &v.PDFPath, &diffJSON, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if diffJSON != nil {
		var diff types.Selection
		if err := json.Unmarshal(diffJSON, &diff); err != nil {
			return nil, fmt.Errorf("failed to decode diff_json: %w", err)
		}
		v.Diff = &diff
	}
	return &v, nil
}

// GetResumeVariant retrieves the user's variant for a job. Returns nil, nil when none exists.
func (db *DB) GetResumeVariant(ctx context.Context, userID, jobID uuid.UUID) (*ResumeVariant, error) {
	v, err := scanVariant(db.pool.QueryRow(ctx,
		`SELECT `+variantColumns+` FROM resume_variant WHERE user_id = $1 AND job_id = $2`,
		userID, jobID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume variant: %w", err)
	}
	return v, nil
}

// GetResumeVariantByID retrieves a variant by its ID. Used by the compile worker.
func (db *DB) GetResumeVariantByID(ctx context.Context, variantID uuid.UUID) (*ResumeVariant, error) {
	v, err := scanVariant(db.pool.QueryRow(ctx,
		`SELECT `+variantColumns+` FROM resume_variant WHERE id = $1`,
		variantID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume variant: %w", err)
	}
	return v, nil
}

// UpsertResumeVariant stores the rebuilt LaTeX and the selection that produced it
// for (userID, jobID). A previous PDF path is cleared since it no longer matches.
func (db *DB) UpsertResumeVariant(ctx context.Context, userID, jobID uuid.UUID, latex string, diff types.Selection) (*ResumeVariant, error) {
	diffJSON, err := json.Marshal(diff)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal variant diff: %w", err)
	}

	v, err := scanVariant(db.pool.QueryRow(ctx,
		`INSERT INTO resume_variant (user_id, job_id, latex_blob, diff_json)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, job_id) DO UPDATE SET
		     latex_blob = EXCLUDED.latex_blob,
		     diff_json = EXCLUDED.diff_json,
		     pdf_path = NULL,
		     updated_at = NOW()
		 RETURNING `+variantColumns,
		userID, jobID, latex, diffJSON,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert resume variant: %w", err)
	}
	return v, nil
}

// SetVariantPDFPath records where a variant's compiled PDF was stored.
func (db *DB) SetVariantPDFPath(ctx context.Context, variantID uuid.UUID, path string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resume_variant SET pdf_path = $1, updated_at = NOW() WHERE id = $2`,
		path, variantID,
	)
	if err != nil {
		return fmt.Errorf("failed to set variant pdf path: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume variant not found: %s", variantID)
	}
	return nil
}
