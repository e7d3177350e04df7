package service

import "errors"

// Sentinel errors returned by the account service. Callers match them with
// errors.Is; they are usually wrapped with more context.
var (
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidAmount         = errors.New("amount must be a positive whole number")
	ErrInvalidTier           = errors.New("invalid quiz difficulty")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrAlreadyAttemptedToday = errors.New("quiz already attempted today")
	ErrQuizNotStarted        = errors.New("quiz has not been started")
)
