package api

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"donutsmp/auth"
	"donutsmp/models"
	"donutsmp/service"
	"donutsmp/session"

	"github.com/stretchr/testify/mock"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) GetOrCreateUser(ctx context.Context, discordID, displayName string) (*models.User, error) {
	args := m.Called(ctx, discordID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAccountService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAccountService) LinkGameUsername(ctx context.Context, userID int64, gameUsername string) error {
	args := m.Called(ctx, userID, gameUsername)
	return args.Error(0)
}

func (m *mockAccountService) Credit(ctx context.Context, userID int64, amount int64) (*models.Deposit, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deposit), args.Error(1)
}

func (m *mockAccountService) PurchaseQuiz(ctx context.Context, userID int64, tier models.QuizTier) (*service.QuizPurchase, error) {
	args := m.Called(ctx, userID, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QuizPurchase), args.Error(1)
}

func (m *mockAccountService) SettleQuiz(ctx context.Context, userID int64, tier models.QuizTier, score int, allCorrect bool) (*models.QuizSettlement, error) {
	args := m.Called(ctx, userID, tier, score, allCorrect)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizSettlement), args.Error(1)
}

func (m *mockAccountService) QuizAvailability(ctx context.Context, userID int64) (map[models.QuizTier]bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.QuizTier]bool), args.Error(1)
}

func (m *mockAccountService) RequestWithdrawal(ctx context.Context, userID int64, gameUsername string, amount int64) (*models.Withdrawal, error) {
	args := m.Called(ctx, userID, gameUsername, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *mockAccountService) ListWithdrawals(ctx context.Context, userID int64, limit int) ([]*models.Withdrawal, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Withdrawal), args.Error(1)
}

func (m *mockAccountService) BalanceHistory(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// fakeProvider accepts a single code and rejects everything else
type fakeProvider struct {
	validCode string
	profile   *auth.Profile
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://discord.test/oauth2/authorize?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Authenticate(ctx context.Context, code string) (*auth.Profile, error) {
	if code != p.validCode {
		return nil, fmt.Errorf("invalid_grant: %w", auth.ErrAuthFailed)
	}
	return p.profile, nil
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*models.Session)}
}

func (m *memoryStore) Save(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.Token] = &cp
	return nil
}

func (m *memoryStore) Get(ctx context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

var _ session.Store = (*memoryStore)(nil)
