package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"donutsmp/database"
	"donutsmp/models"

	"github.com/stretchr/testify/require"
)

var discordSeq atomic.Int64

// NextDiscordID returns a unique snowflake-looking Discord ID
func NextDiscordID() string {
	return fmt.Sprintf("%d", 800000000000000000+discordSeq.Add(1))
}

// CreateTestUser inserts a user with the given balance directly into the database
func CreateTestUser(t *testing.T, db *database.DB, displayName string, balance int64) *models.User {
	t.Helper()

	var user models.User
	err := db.QueryRow(context.Background(), `
		INSERT INTO users (discord_id, display_name, balance)
		VALUES ($1, $2, $3)
		RETURNING id, discord_id, display_name, game_username, balance, created_at, updated_at
	`, NextDiscordID(), displayName, balance).Scan(
		&user.ID,
		&user.DiscordID,
		&user.DisplayName,
		&user.GameUsername,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	require.NoError(t, err)
	return &user
}

// BalanceOf reads a user's current balance
func BalanceOf(t *testing.T, db *database.DB, userID int64) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(context.Background(), `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	require.NoError(t, err)
	return balance
}

// CountRows counts rows in table for a user
func CountRows(t *testing.T, db *database.DB, table string, userID int64) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1`, table), userID).Scan(&n)
	require.NoError(t, err)
	return n
}
