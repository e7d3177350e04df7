package models

import (
	"time"
)

// QuizTier is one of the three quiz difficulties
type QuizTier string

const (
	QuizTierSimple QuizTier = "simple"
	QuizTierMedium QuizTier = "medium"
	QuizTierHard   QuizTier = "hard"
)

// AllQuizTiers lists the tiers in ascending difficulty
var AllQuizTiers = []QuizTier{QuizTierSimple, QuizTierMedium, QuizTierHard}

// ParseQuizTier validates a tier name coming from a request path
func ParseQuizTier(s string) (QuizTier, bool) {
	switch QuizTier(s) {
	case QuizTierSimple, QuizTierMedium, QuizTierHard:
		return QuizTier(s), true
	}
	return "", false
}

// QuizAttemptStatus tracks an attempt from purchase to scoring
type QuizAttemptStatus string

const (
	QuizAttemptStatusInProgress QuizAttemptStatus = "in_progress"
	QuizAttemptStatusCompleted  QuizAttemptStatus = "completed"
	QuizAttemptStatusExpired    QuizAttemptStatus = "expired"
)

// QuizAttempt is the single attempt a user gets per tier per UTC calendar day.
// It is opened when the quiz is purchased and scored on submission.
type QuizAttempt struct {
	ID          int64             `db:"id"`
	UserID      int64             `db:"user_id"`
	Tier        QuizTier          `db:"difficulty"`
	AttemptDate time.Time         `db:"attempt_date"`
	Status      QuizAttemptStatus `db:"status"`
	Score       *int              `db:"score"`
	Cost        int64             `db:"cost"`
	Reward      int64             `db:"reward"`
	StartedAt   time.Time         `db:"started_at"`
	CompletedAt *time.Time        `db:"completed_at"`
}

// QuizSettlement is the outcome of scoring an open attempt
type QuizSettlement struct {
	AttemptID  int64
	Tier       QuizTier
	Score      int
	AllCorrect bool
	Reward     int64
	NewBalance int64
}
