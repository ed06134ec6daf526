package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/job-assistant/internal/types"
)

const jobColumns = `id, user_id, title, company, location, jd_raw, jd_spans_json, status,
	application_status, connection_status, source_url, deadline_at, notes, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	var spansJSON []byte
	err := row.Scan(&j.ID, &j.UserID, &j.Title, &j.Company, &j.Location, &j.JDRaw, &spansJSON,
		&j.Status, &j.ApplicationStatus, &j.ConnectionStatus, &j.SourceURL, &j.DeadlineAt,
		&j.Notes, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if spansJSON != nil {
		var spans types.JDSpan
		if err := json.Unmarshal(spansJSON, &spans); err != nil {
			return nil, fmt.Errorf("failed to decode jd_spans_json: %w", err)
		}
		j.JDSpans = &spans
	}
	return &j, nil
}

// CreateJob inserts a job with default statuses.
func (db *DB) CreateJob(ctx context.Context, input *JobCreateInput) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`INSERT INTO jobs (user_id, title, company, location, jd_raw, source_url, deadline_at, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+jobColumns,
		input.UserID, input.Title, input.Company, input.Location, input.JDRaw,
		input.SourceURL, input.DeadlineAt, input.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// GetJob retrieves a job owned by userID. Returns nil, nil when not found.
func (db *DB) GetJob(ctx context.Context, userID, jobID uuid.UUID) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND user_id = $2`,
		jobID, userID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs returns a user's jobs, newest first, optionally filtered by status.
func (db *DB) ListJobs(ctx context.Context, userID uuid.UUID, status string) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// UpdateJob applies the non-nil fields of req. Returns nil, nil when the job
// does not exist or belongs to another user.
func (db *DB) UpdateJob(ctx context.Context, userID, jobID uuid.UUID, req *types.UpdateJobRequest) (*Job, error) {
	var b updateBuilder
	if req.Title != nil {
		b.set("title", *req.Title)
	}
	if req.Company != nil {
		b.set("company", *req.Company)
	}
	if req.Location != nil {
		b.set("location", *req.Location)
	}
	if req.Status != nil {
		b.set("status", *req.Status)
	}
	if req.ApplicationStatus != nil {
		b.set("application_status", *req.ApplicationStatus)
	}
	if req.ConnectionStatus != nil {
		b.set("connection_status", *req.ConnectionStatus)
	}
	if req.SourceURL != nil {
		b.set("source_url", *req.SourceURL)
	}
	if req.DeadlineAt != nil {
		b.set("deadline_at", *req.DeadlineAt)
	}
	if req.Notes != nil {
		b.set("notes", *req.Notes)
	}
	if b.empty() {
		return db.GetJob(ctx, userID, jobID)
	}

	query, args := b.build("jobs", condition{"id", jobID}, condition{"user_id", userID})
	job, err := scanJob(db.pool.QueryRow(ctx, query+" RETURNING "+jobColumns, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

// SetJobSpans stores the analyzed spans of a job's description.
// Reports false if the job does not exist for userID.
func (db *DB) SetJobSpans(ctx context.Context, userID, jobID uuid.UUID, spans types.JDSpan) (bool, error) {
	spansJSON, err := json.Marshal(spans)
	if err != nil {
		return false, fmt.Errorf("failed to marshal spans: %w", err)
	}
	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET jd_spans_json = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		spansJSON, jobID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set job spans: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteJob deletes a job and its variants and cover letter (via cascade).
// Reports false if nothing was deleted.
func (db *DB) DeleteJob(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND user_id = $2`, jobID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
