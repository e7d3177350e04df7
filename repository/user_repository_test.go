package repository

import (
	"context"
	"math"
	"testing"

	"donutsmp/repository/testutil"
	"donutsmp/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Upsert(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	discordID := testutil.NextDiscordID()

	first, created, err := repo.Upsert(ctx, discordID, "steve")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(0), first.Balance)
	assert.Nil(t, first.GameUsername)

	second, created, err := repo.Upsert(ctx, discordID, "Steve (renamed)")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Steve (renamed)", second.DisplayName)
}

func TestUserRepository_GetByIDMissing(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)

	user, err := repo.GetByID(context.Background(), 424242)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_SetGameUsername(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, testDB.DB, "alex", 0)

	require.NoError(t, repo.SetGameUsername(ctx, user.ID, "Alex_MC"))
	require.NoError(t, repo.SetGameUsername(ctx, user.ID, "Alex_MC"))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GameUsername)
	assert.Equal(t, "Alex_MC", *got.GameUsername)

	err = repo.SetGameUsername(ctx, 999999, "ghost")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserRepository_Balance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, testDB.DB, "steve", 1000)

	tests := []struct {
		name        string
		op          func() (int64, error)
		wantBalance int64
		wantErr     error
	}{
		{
			name:        "add",
			op:          func() (int64, error) { return repo.AddBalance(ctx, user.ID, 500) },
			wantBalance: 1500,
		},
		{
			name:        "deduct within balance",
			op:          func() (int64, error) { return repo.DeductBalance(ctx, user.ID, 1500) },
			wantBalance: 0,
		},
		{
			name:        "deduct beyond balance",
			op:          func() (int64, error) { return repo.DeductBalance(ctx, user.ID, 1) },
			wantBalance: 0,
			wantErr:     service.ErrInsufficientBalance,
		},
		{
			name:        "deduct from unknown user",
			op:          func() (int64, error) { return repo.DeductBalance(ctx, 999999, 1) },
			wantBalance: 0,
			wantErr:     service.ErrUserNotFound,
		},
		{
			name:        "add to unknown user",
			op:          func() (int64, error) { return repo.AddBalance(ctx, 999999, 1) },
			wantBalance: 0,
			wantErr:     service.ErrUserNotFound,
		},
	}

	// Sequential: each case builds on the previous balance
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantBalance, testutil.BalanceOf(t, testDB.DB, user.ID))
		})
	}
}

func TestUserRepository_AddBalanceOverflow(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, testDB.DB, "steve", math.MaxInt64-10)

	_, err := repo.AddBalance(ctx, user.ID, 11)
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	_, err = repo.AddBalance(ctx, user.ID, 0)
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	assert.Equal(t, int64(math.MaxInt64-10), testutil.BalanceOf(t, testDB.DB, user.ID))
}
