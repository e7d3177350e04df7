package repository

import (
	"context"
	"errors"
	"fmt"

	"donutsmp/database"
	"donutsmp/models"
	"donutsmp/service"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, discord_id, display_name, game_username, balance, created_at, updated_at`

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row pgx.Row, extra ...any) (*models.User, error) {
	var user models.User
	dest := []any{
		&user.ID,
		&user.DiscordID,
		&user.DisplayName,
		&user.GameUsername,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by local ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// Upsert creates the user or refreshes the display name of an existing one
func (r *UserRepository) Upsert(ctx context.Context, discordID, displayName string) (*models.User, bool, error) {
	// xmax is zero only for a freshly inserted row version
	query := `
		INSERT INTO users (discord_id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE
		SET display_name = EXCLUDED.display_name, updated_at = NOW()
		RETURNING ` + userColumns + `, (xmax = 0) AS inserted
	`

	var inserted bool
	user, err := scanUser(r.q.QueryRow(ctx, query, discordID, displayName), &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user with discord ID %s: %w", discordID, err)
	}
	return user, inserted, nil
}

// SetGameUsername links the in-game account name
func (r *UserRepository) SetGameUsername(ctx context.Context, id int64, gameUsername string) error {
	query := `
		UPDATE users
		SET game_username = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, gameUsername, id)
	if err != nil {
		return fmt.Errorf("failed to set game username for user %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, service.ErrUserNotFound)
	}
	return nil
}

// AddBalance adds to a user's balance atomically
func (r *UserRepository) AddBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount %d must be positive: %w", amount, service.ErrInvalidAmount)
	}

	query := `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, amount, id).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("user %d: %w", id, service.ErrUserNotFound)
	}
	if isNumericOutOfRange(err) {
		return 0, fmt.Errorf("adding %d overflows balance of user %d: %w", amount, id, service.ErrInvalidAmount)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add balance for user %d: %w", id, err)
	}
	return balance, nil
}

// DeductBalance deducts from a user's balance atomically, failing if insufficient funds
func (r *UserRepository) DeductBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount %d must be positive: %w", amount, service.ErrInvalidAmount)
	}

	query := `
		UPDATE users
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, amount, id).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to deduct balance for user %d: %w", id, err)
	}

	user, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to check user: %w", err)
	}
	if user == nil {
		return 0, fmt.Errorf("user %d: %w", id, service.ErrUserNotFound)
	}
	return 0, fmt.Errorf("have %d, need %d: %w", user.Balance, amount, service.ErrInsufficientBalance)
}
