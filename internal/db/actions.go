package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// LogAction records an analytics event. meta may be nil.
func (db *DB) LogAction(ctx context.Context, userID uuid.UUID, jobID *uuid.UUID, actionType string, meta map[string]any) error {
	var metaJSON []byte
	if meta != nil {
		var err error
		if metaJSON, err = json.Marshal(meta); err != nil {
			return fmt.Errorf("failed to marshal action meta: %w", err)
		}
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO actions (user_id, job_id, type, meta) VALUES ($1, $2, $3, $4)`,
		userID, jobID, actionType, metaJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to log action: %w", err)
	}
	return nil
}

// ListActions returns a user's most recent actions, newest first.
func (db *DB) ListActions(ctx context.Context, userID uuid.UUID, limit int) ([]Action, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_id, type, meta, created_at
		 FROM actions WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	actions := []Action{}
	for rows.Next() {
		var a Action
		var metaJSON []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.JobID, &a.Type, &metaJSON, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		if metaJSON != nil {
			if err := json.Unmarshal(metaJSON, &a.Meta); err != nil {
				return nil, fmt.Errorf("failed to decode action meta: %w", err)
			}
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return actions, nil
}
