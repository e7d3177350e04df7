package repository

import (
	"context"
	"fmt"

	"donutsmp/database"
	"donutsmp/models"
)

// WithdrawalRepository implements the WithdrawalRepository interface
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

// Create stores a withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	if withdrawal.Status == "" {
		withdrawal.Status = models.WithdrawalStatusPending
	}

	query := `
		INSERT INTO withdrawals (user_id, game_username, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, requested_at
	`

	err := r.q.QueryRow(ctx, query,
		withdrawal.UserID,
		withdrawal.GameUsername,
		withdrawal.Amount,
		withdrawal.Status,
	).Scan(&withdrawal.ID, &withdrawal.RequestedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal for user %d: %w", withdrawal.UserID, err)
	}
	return nil
}

// ListByUser returns the user's most recent withdrawal requests
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Withdrawal, error) {
	query := `
		SELECT id, user_id, game_username, amount, status, requested_at
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY requested_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals for user %d: %w", userID, err)
	}
	defer rows.Close()

	withdrawals := make([]*models.Withdrawal, 0, limit)
	for rows.Next() {
		var w models.Withdrawal
		if err := rows.Scan(&w.ID, &w.UserID, &w.GameUsername, &w.Amount, &w.Status, &w.RequestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate withdrawals: %w", err)
	}
	return withdrawals, nil
}
