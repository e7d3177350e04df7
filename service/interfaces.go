package service

import (
	"context"
	"time"

	"donutsmp/events"
	"donutsmp/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by local ID, returning nil if absent
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Upsert creates the user for a Discord account or refreshes its display
	// name. created reports whether a new row was inserted.
	Upsert(ctx context.Context, discordID, displayName string) (user *models.User, created bool, err error)

	// SetGameUsername links the in-game account name
	SetGameUsername(ctx context.Context, id int64, gameUsername string) error

	// AddBalance credits the user and returns the new balance
	AddBalance(ctx context.Context, id int64, amount int64) (int64, error)

	// DeductBalance debits the user only if the balance covers amount and
	// returns the new balance. Fails with ErrInsufficientBalance otherwise.
	DeductBalance(ctx context.Context, id int64, amount int64) (int64, error)
}

// QuizAttemptRepository defines the interface for quiz attempt data access
type QuizAttemptRepository interface {
	// Open inserts an in-progress attempt. A second attempt for the same user,
	// tier and day fails with ErrAlreadyAttemptedToday.
	Open(ctx context.Context, attempt *models.QuizAttempt) error

	// GetOpenForUpdate locks and returns the in-progress attempt bought on day
	// for a user and tier, or nil if there is none
	GetOpenForUpdate(ctx context.Context, userID int64, tier models.QuizTier, day time.Time) (*models.QuizAttempt, error)

	// Complete scores an attempt
	Complete(ctx context.Context, attemptID int64, score int, reward int64, completedAt time.Time) error

	// GetForDay returns the attempt for a user, tier and day, or nil
	GetForDay(ctx context.Context, userID int64, tier models.QuizTier, day time.Time) (*models.QuizAttempt, error)

	// ListForDay returns every attempt a user made on a day
	ListForDay(ctx context.Context, userID int64, day time.Time) ([]*models.QuizAttempt, error)

	// ExpireOpenBefore marks in-progress attempts older than day as expired
	ExpireOpenBefore(ctx context.Context, day time.Time) (int64, error)
}

// DepositRepository defines the interface for deposit data access
type DepositRepository interface {
	Create(ctx context.Context, deposit *models.Deposit) error
}

// WithdrawalRepository defines the interface for withdrawal data access
type WithdrawalRepository interface {
	// Create stores a new withdrawal request
	Create(ctx context.Context, withdrawal *models.Withdrawal) error

	// ListByUser returns a user's most recent requests, newest first
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Withdrawal, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns balance history for a specific user, newest first
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and releases pending events
	Commit() error

	// Rollback rolls back the transaction and drops pending events
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	QuizAttemptRepository() QuizAttemptRepository
	DepositRepository() DepositRepository
	WithdrawalRepository() WithdrawalRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// QuizPurchase is returned when a quiz is bought
type QuizPurchase struct {
	Attempt    *models.QuizAttempt
	Cost       int64
	NewBalance int64
}

// AccountService owns every balance mutation in the system
type AccountService interface {
	// GetOrCreateUser finds the user for a Discord account, creating it with a
	// zero balance on first login
	GetOrCreateUser(ctx context.Context, discordID, displayName string) (*models.User, error)

	// GetProfile returns the user's current identity and balance
	GetProfile(ctx context.Context, userID int64) (*models.User, error)

	// LinkGameUsername sets the in-game account name
	LinkGameUsername(ctx context.Context, userID int64, gameUsername string) error

	// Credit adds amount to the balance and records a deposit
	Credit(ctx context.Context, userID int64, amount int64) (*models.Deposit, error)

	// PurchaseQuiz debits the tier cost and opens today's attempt
	PurchaseQuiz(ctx context.Context, userID int64, tier models.QuizTier) (*QuizPurchase, error)

	// SettleQuiz scores the open attempt and credits the reward when allCorrect
	SettleQuiz(ctx context.Context, userID int64, tier models.QuizTier, score int, allCorrect bool) (*models.QuizSettlement, error)

	// QuizAvailability reports which tiers can still be taken today
	QuizAvailability(ctx context.Context, userID int64) (map[models.QuizTier]bool, error)

	// RequestWithdrawal debits amount and records a pending payout
	RequestWithdrawal(ctx context.Context, userID int64, gameUsername string, amount int64) (*models.Withdrawal, error)

	// ListWithdrawals returns the user's most recent withdrawal requests
	ListWithdrawals(ctx context.Context, userID int64, limit int) ([]*models.Withdrawal, error)

	// BalanceHistory returns the user's most recent ledger entries
	BalanceHistory(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// MaintenanceService runs periodic housekeeping on the store
type MaintenanceService interface {
	// ExpireStaleQuizAttempts closes attempts left open on a previous day
	ExpireStaleQuizAttempts(ctx context.Context) (int64, error)
}
