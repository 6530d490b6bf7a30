package store

import (
	"context"
	"fmt"

	"github.com/openpioneer/marketplace-notify/internal/domain"
)

// DispatchAttemptRecord holds data for inserting a dispatch attempt.
type DispatchAttemptRecord struct {
	JobID        string
	EventType    string
	Attempt      int
	Status       string
	DurationMs   int
	ErrorMessage string
}

// RecordDispatchAttempt inserts a dispatch attempt audit row.
func (s *PostgresStore) RecordDispatchAttempt(ctx context.Context, rec DispatchAttemptRecord) error {
	var errMsg *string
	if rec.ErrorMessage != "" {
		errMsg = &rec.ErrorMessage
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO dispatch_attempts (job_id, event_type, attempt, status, duration_ms, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.JobID, rec.EventType, rec.Attempt, rec.Status, rec.DurationMs, errMsg)
	if err != nil {
		return fmt.Errorf("inserting dispatch attempt: %w", err)
	}
	return nil
}

// ListDispatchAttempts returns dispatch attempts, newest first, with
// optional filtering by event type and status.
func (s *PostgresStore) ListDispatchAttempts(ctx context.Context, eventType, status string, limit int) ([]domain.DispatchAttempt, error) {
	query := `SELECT id, job_id, event_type, attempt, status, duration_ms, error_message, created_at FROM dispatch_attempts`
	args := []interface{}{}
	argIdx := 1
	conditions := []string{}

	if eventType != "" {
		conditions = append(conditions, fmt.Sprintf("event_type = $%d", argIdx))
		args = append(args, eventType)
		argIdx++
	}
	if status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, status)
		argIdx++
	}

	if len(conditions) > 0 {
		query += " WHERE "
		for i, c := range conditions {
			if i > 0 {
				query += " AND "
			}
			query += c
		}
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying dispatch attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.DispatchAttempt
	for rows.Next() {
		var a domain.DispatchAttempt
		err := rows.Scan(
			&a.ID, &a.JobID, &a.EventType, &a.Attempt,
			&a.Status, &a.DurationMs, &a.ErrorMessage, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning dispatch attempt: %w", err)
		}
		attempts = append(attempts, a)
	}

	if attempts == nil {
		attempts = []domain.DispatchAttempt{}
	}

	return attempts, nil
}
