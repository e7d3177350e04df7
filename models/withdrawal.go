package models

import (
	"time"
)

// WithdrawalStatus is set to pending by the site; later transitions happen
// out of band when staff pay out in-game.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusPaid     WithdrawalStatus = "paid"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a request to pay out currency to an in-game account
type Withdrawal struct {
	ID           int64            `db:"id"`
	UserID       int64            `db:"user_id"`
	GameUsername string           `db:"game_username"`
	Amount       int64            `db:"amount"`
	Status       WithdrawalStatus `db:"status"`
	RequestedAt  time.Time        `db:"requested_at"`
}
