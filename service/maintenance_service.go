package service

import (
	"context"
	"fmt"
	"time"
)

type maintenanceService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewMaintenanceService creates the housekeeping service used by workers
func NewMaintenanceService(uowFactory UnitOfWorkFactory) MaintenanceService {
	return &maintenanceService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// ExpireStaleQuizAttempts closes open attempts from previous days. They can
// no longer be submitted, so this only tidies their status.
func (s *maintenanceService) ExpireStaleQuizAttempts(ctx context.Context) (int64, error) {
	cutoff := CalendarDay(s.now())

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	expired, err := uow.QuizAttemptRepository().ExpireOpenBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire quiz attempts: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return expired, nil
}
