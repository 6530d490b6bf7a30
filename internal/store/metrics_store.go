package store

import (
	"context"
	"fmt"
)

// SystemMetrics holds aggregated notification and dispatch statistics.
type SystemMetrics struct {
	TotalNotifications     int     `json:"total_notifications"`
	UnclearedNotifications int     `json:"uncleared_notifications"`
	TotalDispatches        int     `json:"total_dispatches"`
	DispatchSuccessCount   int     `json:"dispatch_success_count"`
	DispatchSuccessRate    float64 `json:"dispatch_success_rate"`
	AvgDispatchMs          float64 `json:"avg_dispatch_ms"`
	TotalOrders            int     `json:"total_orders"`
}

// GetSystemMetrics returns aggregated statistics from the database.
func (s *PostgresStore) GetSystemMetrics(ctx context.Context) (*SystemMetrics, error) {
	var m SystemMetrics

	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_cleared = false) AS uncleared
		FROM notifications
	`).Scan(&m.TotalNotifications, &m.UnclearedNotifications)
	if err != nil {
		return nil, fmt.Errorf("querying notification metrics: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'success') AS success,
			COALESCE(AVG(duration_ms) FILTER (WHERE duration_ms > 0), 0) AS avg_ms
		FROM dispatch_attempts
	`).Scan(&m.TotalDispatches, &m.DispatchSuccessCount, &m.AvgDispatchMs)
	if err != nil {
		return nil, fmt.Errorf("querying dispatch metrics: %w", err)
	}

	if m.TotalDispatches > 0 {
		m.DispatchSuccessRate = float64(m.DispatchSuccessCount) / float64(m.TotalDispatches) * 100
	}

	err = s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&m.TotalOrders)
	if err != nil {
		return nil, fmt.Errorf("querying order count: %w", err)
	}

	return &m, nil
}
