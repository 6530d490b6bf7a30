package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrInsufficientBalance is returned when a deduction would take an owner's
// balance below zero. Charging is all-or-nothing.
var ErrInsufficientBalance = errors.New("insufficient balance")

// DeductBalance charges weeks units from the owner's balance atomically.
func (s *PostgresStore) DeductBalance(ctx context.Context, ownerID string, weeks int) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE memberships SET balance = balance - $2, updated_at = NOW()
		WHERE owner_id = $1 AND balance >= $2
	`, ownerID, weeks)
	if err != nil {
		return fmt.Errorf("deducting balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrInsufficientBalance
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO balance_entries (owner_id, amount, reason) VALUES ($1, $2, $3)
	`, ownerID, -weeks, "charge")
	if err != nil {
		return fmt.Errorf("recording balance entry: %w", err)
	}
	return nil
}

// CreditBalance adds weeks units to the owner's balance, creating the
// account on first credit. reasonTag labels the ledger entry ("refund",
// "reward", ...).
func (s *PostgresStore) CreditBalance(ctx context.Context, ownerID string, weeks int, reasonTag string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO memberships (owner_id, balance) VALUES ($1, $2)
		ON CONFLICT (owner_id) DO UPDATE
		SET balance = memberships.balance + $2, updated_at = NOW()
	`, ownerID, weeks)
	if err != nil {
		return fmt.Errorf("crediting balance: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO balance_entries (owner_id, amount, reason) VALUES ($1, $2, $3)
	`, ownerID, weeks, reasonTag)
	if err != nil {
		return fmt.Errorf("recording balance entry: %w", err)
	}
	return nil
}

// GetBalance returns the owner's current balance; owners without an account
// have a zero balance.
func (s *PostgresStore) GetBalance(ctx context.Context, ownerID string) (int, error) {
	var balance int
	err := s.pool.QueryRow(ctx, `
		SELECT balance FROM memberships WHERE owner_id = $1
	`, ownerID).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("querying balance: %w", err)
	}
	return balance, nil
}
