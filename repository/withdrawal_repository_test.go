package repository

import (
	"context"
	"testing"

	"donutsmp/models"
	"donutsmp/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalRepository_ListByUserNewestFirst(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewWithdrawalRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, testDB.DB, "steve", 0)
	other := testutil.CreateTestUser(t, testDB.DB, "alex", 0)

	for i := int64(1); i <= 12; i++ {
		require.NoError(t, repo.Create(ctx, &models.Withdrawal{UserID: user.ID, GameUsername: "Steve", Amount: i}))
	}
	require.NoError(t, repo.Create(ctx, &models.Withdrawal{UserID: other.ID, GameUsername: "Alex", Amount: 99}))

	list, err := repo.ListByUser(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 10)

	assert.Equal(t, int64(12), list[0].Amount)
	assert.Equal(t, int64(3), list[9].Amount)
	for _, w := range list {
		assert.Equal(t, user.ID, w.UserID)
		assert.Equal(t, models.WithdrawalStatusPending, w.Status)
	}
}
