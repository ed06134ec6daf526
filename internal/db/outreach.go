package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/job-assistant/internal/types"
)

const contactColumns = `id, user_id, job_id, name, linkedin_url, role, status, last_contacted_at, notes, created_at, updated_at`

func scanContact(row pgx.Row) (*OutreachContact, error) {
	var c OutreachContact
	err := row.Scan(&c.ID, &c.UserID, &c.JobID, &c.Name, &c.LinkedInURL, &c.Role, &c.Status,
		&c.LastContactedAt, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateContact inserts an outreach contact with status "Not Contacted".
func (db *DB) CreateContact(ctx context.Context, input *ContactCreateInput) (*OutreachContact, error) {
	c, err := scanContact(db.pool.QueryRow(ctx,
		`INSERT INTO outreach_contacts (user_id, job_id, name, linkedin_url, role, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+contactColumns,
		input.UserID, input.JobID, input.Name, input.LinkedInURL, input.Role, input.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return c, nil
}

// ListContacts returns a user's contacts, newest first. A non-nil jobID limits
// the result to contacts attached to that job.
func (db *DB) ListContacts(ctx context.Context, userID uuid.UUID, jobID *uuid.UUID) ([]OutreachContact, error) {
	query := `SELECT ` + contactColumns + ` FROM outreach_contacts WHERE user_id = $1`
	args := []any{userID}
	if jobID != nil {
		query += " AND job_id = $2"
		args = append(args, *jobID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []OutreachContact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// GetContact retrieves a contact owned by userID. Returns nil, nil when not found.
func (db *DB) GetContact(ctx context.Context, userID, contactID uuid.UUID) (*OutreachContact, error) {
	c, err := scanContact(db.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM outreach_contacts WHERE id = $1 AND user_id = $2`,
		contactID, userID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

// UpdateContact applies the non-nil fields of req. Moving a contact to
// "Reached Out" stamps last_contacted_at. Returns nil, nil when not found.
func (db *DB) UpdateContact(ctx context.Context, userID, contactID uuid.UUID, req *types.UpdateContactRequest) (*OutreachContact, error) {
	var b updateBuilder
	if req.Name != nil {
		b.set("name", *req.Name)
	}
	if req.LinkedInURL != nil {
		b.set("linkedin_url", *req.LinkedInURL)
	}
	if req.Role != nil {
		b.set("role", *req.Role)
	}
	if req.Status != nil {
		b.set("status", *req.Status)
		if *req.Status == types.ContactStatusReachedOut {
			b.set("last_contacted_at", time.Now().UTC())
		}
	}
	if req.Notes != nil {
		b.set("notes", *req.Notes)
	}
	if b.empty() {
		return db.GetContact(ctx, userID, contactID)
	}

	query, args := b.build("outreach_contacts", condition{"id", contactID}, condition{"user_id", userID})
	c, err := scanContact(db.pool.QueryRow(ctx, query+" RETURNING "+contactColumns, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return c, nil
}

// DeleteContact removes a contact. Reports false if nothing was deleted.
func (db *DB) DeleteContact(ctx context.Context, userID, contactID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM outreach_contacts WHERE id = $1 AND user_id = $2`, contactID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
