package models

import (
	"time"
)

// Session is a logged-in browser. BalanceSnapshot is the balance observed at
// login and is only informational; balance reads always go to users.
type Session struct {
	Token           string    `db:"-"`
	UserID          int64     `db:"user_id"`
	DisplayName     string    `db:"display_name"`
	BalanceSnapshot int64     `db:"balance_snapshot"`
	CreatedAt       time.Time `db:"created_at"`
	ExpiresAt       time.Time `db:"expires_at"`
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
