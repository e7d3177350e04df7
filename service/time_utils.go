package service

import (
	"time"
)

// CalendarDay truncates t to midnight of its UTC calendar day. Quiz
// eligibility resets when this value changes.
func CalendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
