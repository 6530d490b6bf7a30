package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/openpioneer/marketplace-notify/internal/domain"
)

// Pagination bounds for notification listing.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Notification status filters accepted by ListNotifications.
const (
	StatusCleared   = "cleared"
	StatusUncleared = "uncleared"
)

// NormalizePage clamps pagination parameters: skip is floored at 0, limit is
// clamped to [1, MaxPageLimit] with a default when unset.
func NormalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return skip, limit
}

// CreateNotification inserts an uncleared notification for the recipient.
func (s *PostgresStore) CreateNotification(ctx context.Context, recipientID, reason string) (*domain.Notification, error) {
	var n domain.Notification
	err := s.pool.QueryRow(ctx, `
		INSERT INTO notifications (recipient_id, reason)
		VALUES ($1, $2)
		RETURNING id, recipient_id, reason, is_cleared, created_at, updated_at
	`, recipientID, reason).Scan(
		&n.ID, &n.RecipientID, &n.Reason, &n.IsCleared, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting notification: %w", err)
	}
	return &n, nil
}

// ListNotifications returns a page of the recipient's notifications, newest
// first, plus the total count matching the filter. status is "cleared",
// "uncleared", or empty for both.
func (s *PostgresStore) ListNotifications(ctx context.Context, recipientID string, skip, limit int, status string) (*domain.NotificationPage, error) {
	skip, limit = NormalizePage(skip, limit)

	query := `SELECT id, recipient_id, reason, is_cleared, created_at, updated_at
		FROM notifications WHERE recipient_id = $1`
	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`
	args := []interface{}{recipientID}

	switch status {
	case StatusCleared:
		query += " AND is_cleared = true"
		countQuery += " AND is_cleared = true"
	case StatusUncleared:
		query += " AND is_cleared = false"
		countQuery += " AND is_cleared = false"
	}

	var count int
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("counting notifications: %w", err)
	}

	query += " ORDER BY created_at DESC OFFSET $2 LIMIT $3"
	rows, err := s.pool.Query(ctx, query, recipientID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	items := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.RecipientID, &n.Reason, &n.IsCleared, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		items = append(items, n)
	}

	return &domain.NotificationPage{Items: items, Count: count}, nil
}

// ToggleNotificationCleared flips the cleared flag. Returns (nil, nil) when
// the notification does not exist.
func (s *PostgresStore) ToggleNotificationCleared(ctx context.Context, notificationID string) (*domain.Notification, error) {
	var n domain.Notification
	err := s.pool.QueryRow(ctx, `
		UPDATE notifications
		SET is_cleared = NOT is_cleared, updated_at = NOW()
		WHERE id = $1
		RETURNING id, recipient_id, reason, is_cleared, created_at, updated_at
	`, notificationID).Scan(
		&n.ID, &n.RecipientID, &n.Reason, &n.IsCleared, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("toggling notification: %w", err)
	}
	return &n, nil
}
