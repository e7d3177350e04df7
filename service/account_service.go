package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"donutsmp/events"
	"donutsmp/models"
	"donutsmp/quiz"

	log "github.com/sirupsen/logrus"
)

// DefaultWithdrawalListLimit is how many withdrawals the dashboard shows
const DefaultWithdrawalListLimit = 10

type accountService struct {
	uowFactory UnitOfWorkFactory
	engine     *quiz.Engine
	now        func() time.Time
}

// NewAccountService creates the account service
func NewAccountService(uowFactory UnitOfWorkFactory, engine *quiz.Engine) AccountService {
	return &accountService{
		uowFactory: uowFactory,
		engine:     engine,
		now:        time.Now,
	}
}

func (s *accountService) GetOrCreateUser(ctx context.Context, discordID, displayName string) (*models.User, error) {
	if strings.TrimSpace(discordID) == "" {
		return nil, fmt.Errorf("discord id is required: %w", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, created, err := uow.UserRepository().Upsert(ctx, discordID, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	if created {
		uow.EventBus().Publish(events.UserCreatedEvent{
			UserID:      user.ID,
			DiscordID:   user.DiscordID,
			DisplayName: user.DisplayName,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if created {
		log.WithFields(log.Fields{
			"userID":    user.ID,
			"discordID": user.DiscordID,
		}).Info("Created user on first login")
	}

	return user, nil
}

func (s *accountService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	return user, nil
}

func (s *accountService) LinkGameUsername(ctx context.Context, userID int64, gameUsername string) error {
	gameUsername = strings.TrimSpace(gameUsername)
	if gameUsername == "" {
		return fmt.Errorf("game username is required: %w", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().SetGameUsername(ctx, userID, gameUsername); err != nil {
		return fmt.Errorf("failed to set game username: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *accountService) Credit(ctx context.Context, userID int64, amount int64) (*models.Deposit, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newBalance, err := uow.UserRepository().AddBalance(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit balance: %w", err)
	}

	deposit := &models.Deposit{
		UserID: userID,
		Amount: amount,
	}
	if err := uow.DepositRepository().Create(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	history := &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   newBalance - amount,
		BalanceAfter:    newBalance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeDeposit,
		TransactionMetadata: map[string]any{
			"deposit_amount": amount,
		},
		RelatedID:   &deposit.ID,
		RelatedType: relatedType(models.RelatedTypeDeposit),
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return deposit, nil
}

func (s *accountService) PurchaseQuiz(ctx context.Context, userID int64, tier models.QuizTier) (*QuizPurchase, error) {
	spec, ok := s.engine.Tier(tier)
	if !ok {
		return nil, fmt.Errorf("%q: %w", tier, ErrInvalidTier)
	}

	now := s.now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// The unique (user, tier, day) constraint decides eligibility, so the
	// attempt row goes in before the money moves.
	attempt := &models.QuizAttempt{
		UserID:      userID,
		Tier:        tier,
		AttemptDate: CalendarDay(now),
		Status:      models.QuizAttemptStatusInProgress,
		Cost:        spec.Cost,
		StartedAt:   now,
	}
	if err := uow.QuizAttemptRepository().Open(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to open quiz attempt: %w", err)
	}

	newBalance, err := uow.UserRepository().DeductBalance(ctx, userID, spec.Cost)
	if err != nil {
		return nil, fmt.Errorf("failed to charge quiz cost: %w", err)
	}

	history := &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   newBalance + spec.Cost,
		BalanceAfter:    newBalance,
		ChangeAmount:    -spec.Cost,
		TransactionType: models.TransactionTypeQuizCost,
		TransactionMetadata: map[string]any{
			"tier": string(tier),
		},
		RelatedID:   &attempt.ID,
		RelatedType: relatedType(models.RelatedTypeQuizAttempt),
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":    userID,
		"tier":      tier,
		"attemptID": attempt.ID,
	}).Debug("Quiz purchased")

	return &QuizPurchase{
		Attempt:    attempt,
		Cost:       spec.Cost,
		NewBalance: newBalance,
	}, nil
}

func (s *accountService) SettleQuiz(ctx context.Context, userID int64, tier models.QuizTier, score int, allCorrect bool) (*models.QuizSettlement, error) {
	spec, ok := s.engine.Tier(tier)
	if !ok {
		return nil, fmt.Errorf("%q: %w", tier, ErrInvalidTier)
	}
	if score < 0 || score > len(spec.Questions) {
		return nil, fmt.Errorf("score %d out of range: %w", score, ErrInvalidInput)
	}
	if allCorrect != (score == len(spec.Questions)) {
		return nil, fmt.Errorf("score %d inconsistent with all-correct flag: %w", score, ErrInvalidInput)
	}

	now := s.now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// An attempt only counts on the day it was bought. One left open past
	// midnight is never scored and the maintenance job expires it.
	today := CalendarDay(now)
	attempt, err := uow.QuizAttemptRepository().GetOpenForUpdate(ctx, userID, tier, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get open quiz attempt: %w", err)
	}
	if attempt == nil {
		scored, err := uow.QuizAttemptRepository().GetForDay(ctx, userID, tier, today)
		if err != nil {
			return nil, fmt.Errorf("failed to check today's attempt: %w", err)
		}
		if scored != nil {
			return nil, ErrAlreadyAttemptedToday
		}
		return nil, ErrQuizNotStarted
	}

	var reward int64
	if allCorrect {
		reward = spec.Reward
	}

	if err := uow.QuizAttemptRepository().Complete(ctx, attempt.ID, score, reward, now); err != nil {
		return nil, fmt.Errorf("failed to complete quiz attempt: %w", err)
	}

	settlement := &models.QuizSettlement{
		AttemptID:  attempt.ID,
		Tier:       tier,
		Score:      score,
		AllCorrect: allCorrect,
		Reward:     reward,
	}

	if reward > 0 {
		newBalance, err := uow.UserRepository().AddBalance(ctx, userID, reward)
		if err != nil {
			return nil, fmt.Errorf("failed to credit quiz reward: %w", err)
		}
		settlement.NewBalance = newBalance

		history := &models.BalanceHistory{
			UserID:          userID,
			BalanceBefore:   newBalance - reward,
			BalanceAfter:    newBalance,
			ChangeAmount:    reward,
			TransactionType: models.TransactionTypeQuizReward,
			TransactionMetadata: map[string]any{
				"tier":  string(tier),
				"score": score,
			},
			RelatedID:   &attempt.ID,
			RelatedType: relatedType(models.RelatedTypeQuizAttempt),
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record balance change: %w", err)
		}
	} else {
		user, err := uow.UserRepository().GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
		}
		settlement.NewBalance = user.Balance
	}

	uow.EventBus().Publish(events.QuizSettledEvent{
		AttemptID:  attempt.ID,
		UserID:     userID,
		Tier:       tier,
		Score:      score,
		AllCorrect: allCorrect,
		Reward:     reward,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"tier":       tier,
		"score":      score,
		"allCorrect": allCorrect,
		"reward":     reward,
	}).Info("Quiz settled")

	return settlement, nil
}

func (s *accountService) QuizAvailability(ctx context.Context, userID int64) (map[models.QuizTier]bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	today, err := uow.QuizAttemptRepository().ListForDay(ctx, userID, CalendarDay(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to list today's attempts: %w", err)
	}

	return quiz.Availability(today), nil
}

func (s *accountService) RequestWithdrawal(ctx context.Context, userID int64, gameUsername string, amount int64) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	gameUsername = strings.TrimSpace(gameUsername)
	if gameUsername == "" {
		return nil, fmt.Errorf("game username is required: %w", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	newBalance, err := uow.UserRepository().DeductBalance(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to debit withdrawal: %w", err)
	}

	withdrawal := &models.Withdrawal{
		UserID:       userID,
		GameUsername: gameUsername,
		Amount:       amount,
		Status:       models.WithdrawalStatusPending,
	}
	if err := uow.WithdrawalRepository().Create(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to record withdrawal: %w", err)
	}

	history := &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   newBalance + amount,
		BalanceAfter:    newBalance,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeWithdrawal,
		TransactionMetadata: map[string]any{
			"game_username": gameUsername,
		},
		RelatedID:   &withdrawal.ID,
		RelatedType: relatedType(models.RelatedTypeWithdrawal),
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	// Delivered to the webhook only once the debit is committed
	uow.EventBus().Publish(events.WithdrawalRequestedEvent{
		WithdrawalID: withdrawal.ID,
		UserID:       userID,
		DisplayName:  user.DisplayName,
		GameUsername: gameUsername,
		Amount:       amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":       userID,
		"withdrawalID": withdrawal.ID,
		"amount":       amount,
	}).Info("Withdrawal requested")

	return withdrawal, nil
}

func (s *accountService) ListWithdrawals(ctx context.Context, userID int64, limit int) ([]*models.Withdrawal, error) {
	if limit <= 0 {
		limit = DefaultWithdrawalListLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	withdrawals, err := uow.WithdrawalRepository().ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return withdrawals, nil
}

func (s *accountService) BalanceHistory(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error) {
	if limit <= 0 {
		limit = 20
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	history, err := uow.BalanceHistoryRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	return history, nil
}
