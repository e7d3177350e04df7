package repository

import (
	"context"
	"fmt"

	"donutsmp/models"
)

// DepositRepository implements the DepositRepository interface
type DepositRepository struct {
	q queryable
}

func newDepositRepositoryWithTx(tx queryable) *DepositRepository {
	return &DepositRepository{q: tx}
}

// Create stores a deposit and fills in its ID and timestamp
func (r *DepositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	query := `
		INSERT INTO deposits (user_id, amount)
		VALUES ($1, $2)
		RETURNING id, deposited_at
	`

	err := r.q.QueryRow(ctx, query, deposit.UserID, deposit.Amount).Scan(&deposit.ID, &deposit.DepositedAt)
	if err != nil {
		return fmt.Errorf("failed to create deposit for user %d: %w", deposit.UserID, err)
	}
	return nil
}
