package models

import (
	"time"
)

// Deposit records a credit to a user's balance
type Deposit struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	DepositedAt time.Time `db:"deposited_at"`
}
