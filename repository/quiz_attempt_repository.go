package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donutsmp/database"
	"donutsmp/models"
	"donutsmp/service"

	"github.com/jackc/pgx/v5"
)

const (
	quizAttemptColumns = `id, user_id, difficulty, attempt_date, status, score, cost, reward, started_at, completed_at`

	quizAttemptDailyConstraint = "quiz_attempts_user_difficulty_day_unique"
)

// QuizAttemptRepository implements the QuizAttemptRepository interface
type QuizAttemptRepository struct {
	q queryable
}

// NewQuizAttemptRepository creates a new quiz attempt repository
func NewQuizAttemptRepository(db *database.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{q: db.Pool}
}

func newQuizAttemptRepositoryWithTx(tx queryable) *QuizAttemptRepository {
	return &QuizAttemptRepository{q: tx}
}

func scanQuizAttempt(row pgx.Row) (*models.QuizAttempt, error) {
	var a models.QuizAttempt
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Tier,
		&a.AttemptDate,
		&a.Status,
		&a.Score,
		&a.Cost,
		&a.Reward,
		&a.StartedAt,
		&a.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Open inserts an in-progress attempt for the attempt's day
func (r *QuizAttemptRepository) Open(ctx context.Context, attempt *models.QuizAttempt) error {
	query := `
		INSERT INTO quiz_attempts (user_id, difficulty, attempt_date, status, cost, started_at)
		VALUES ($1, $2, $3, 'in_progress', $4, $5)
		RETURNING id, status
	`

	err := r.q.QueryRow(ctx, query,
		attempt.UserID,
		attempt.Tier,
		attempt.AttemptDate,
		attempt.Cost,
		attempt.StartedAt,
	).Scan(&attempt.ID, &attempt.Status)

	if isUniqueViolation(err, quizAttemptDailyConstraint) {
		return fmt.Errorf("user %d %s quiz on %s: %w",
			attempt.UserID, attempt.Tier, attempt.AttemptDate.Format(time.DateOnly), service.ErrAlreadyAttemptedToday)
	}
	if err != nil {
		return fmt.Errorf("failed to open quiz attempt for user %d: %w", attempt.UserID, err)
	}
	return nil
}

// GetOpenForUpdate locks the in-progress attempt a user bought on day. A
// concurrent settlement that completed the row first makes it drop out of the
// result once the lock is released.
func (r *QuizAttemptRepository) GetOpenForUpdate(ctx context.Context, userID int64, tier models.QuizTier, day time.Time) (*models.QuizAttempt, error) {
	query := `
		SELECT ` + quizAttemptColumns + `
		FROM quiz_attempts
		WHERE user_id = $1 AND difficulty = $2 AND attempt_date = $3 AND status = 'in_progress'
		FOR UPDATE
	`

	attempt, err := scanQuizAttempt(r.q.QueryRow(ctx, query, userID, tier, day))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open %s attempt for user %d: %w", tier, userID, err)
	}
	return attempt, nil
}

// Complete records the score of an open attempt
func (r *QuizAttemptRepository) Complete(ctx context.Context, attemptID int64, score int, reward int64, completedAt time.Time) error {
	query := `
		UPDATE quiz_attempts
		SET status = 'completed', score = $2, reward = $3, completed_at = $4
		WHERE id = $1 AND status = 'in_progress'
	`

	result, err := r.q.Exec(ctx, query, attemptID, score, reward, completedAt)
	if err != nil {
		return fmt.Errorf("failed to complete quiz attempt %d: %w", attemptID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("quiz attempt %d is not open", attemptID)
	}
	return nil
}

// GetForDay returns the attempt for a user, tier and day
func (r *QuizAttemptRepository) GetForDay(ctx context.Context, userID int64, tier models.QuizTier, day time.Time) (*models.QuizAttempt, error) {
	query := `
		SELECT ` + quizAttemptColumns + `
		FROM quiz_attempts
		WHERE user_id = $1 AND difficulty = $2 AND attempt_date = $3
	`

	attempt, err := scanQuizAttempt(r.q.QueryRow(ctx, query, userID, tier, day))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s attempt for user %d: %w", tier, userID, err)
	}
	return attempt, nil
}

// ListForDay returns every attempt a user made on a day
func (r *QuizAttemptRepository) ListForDay(ctx context.Context, userID int64, day time.Time) ([]*models.QuizAttempt, error) {
	query := `
		SELECT ` + quizAttemptColumns + `
		FROM quiz_attempts
		WHERE user_id = $1 AND attempt_date = $2
		ORDER BY started_at
	`

	rows, err := r.q.Query(ctx, query, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts for user %d: %w", userID, err)
	}
	defer rows.Close()

	var attempts []*models.QuizAttempt
	for rows.Next() {
		attempt, err := scanQuizAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quiz attempts: %w", err)
	}
	return attempts, nil
}

// ExpireOpenBefore marks in-progress attempts dated before day as expired
func (r *QuizAttemptRepository) ExpireOpenBefore(ctx context.Context, day time.Time) (int64, error) {
	query := `
		UPDATE quiz_attempts
		SET status = 'expired'
		WHERE status = 'in_progress' AND attempt_date < $1
	`

	result, err := r.q.Exec(ctx, query, day)
	if err != nil {
		return 0, fmt.Errorf("failed to expire quiz attempts: %w", err)
	}
	return result.RowsAffected(), nil
}
