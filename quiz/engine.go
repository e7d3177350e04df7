// Package quiz holds the static question banks and the pure rules around
// them: pricing, scoring and daily eligibility. It never touches storage.
package quiz

import (
	"fmt"

	"donutsmp/models"
)

// Question is a multiple-choice question with the index of its right answer
type Question struct {
	Prompt  string
	Options []string
	Correct int
}

// PublicQuestion is what the browser sees. The answer stays on the server.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Tier bundles a difficulty with its price, payout and questions
type Tier struct {
	Name      models.QuizTier
	Cost      int64
	Reward    int64
	Questions []Question
}

// Result is the outcome of scoring one submission
type Result struct {
	Correct    int
	Total      int
	AllCorrect bool
}

// Engine serves a fixed set of tiers
type Engine struct {
	tiers map[models.QuizTier]Tier
}

// NewEngine validates and indexes the given tiers
func NewEngine(tiers []Tier) (*Engine, error) {
	e := &Engine{tiers: make(map[models.QuizTier]Tier, len(tiers))}
	for _, t := range tiers {
		if _, ok := models.ParseQuizTier(string(t.Name)); !ok {
			return nil, fmt.Errorf("unknown quiz tier %q", t.Name)
		}
		if t.Cost <= 0 || t.Reward <= t.Cost {
			return nil, fmt.Errorf("tier %s: reward %d must exceed positive cost %d", t.Name, t.Reward, t.Cost)
		}
		if len(t.Questions) == 0 {
			return nil, fmt.Errorf("tier %s has no questions", t.Name)
		}
		for i, q := range t.Questions {
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				return nil, fmt.Errorf("tier %s question %d: correct index %d out of range", t.Name, i, q.Correct)
			}
		}
		e.tiers[t.Name] = t
	}
	return e, nil
}

// DefaultEngine builds an engine over DefaultTiers. The built-in banks are
// known to be valid so construction cannot fail.
func DefaultEngine() *Engine {
	e, err := NewEngine(DefaultTiers())
	if err != nil {
		panic(fmt.Sprintf("invalid built-in quiz banks: %v", err))
	}
	return e
}

// Tier looks up a tier by name
func (e *Engine) Tier(name models.QuizTier) (Tier, bool) {
	t, ok := e.tiers[name]
	return t, ok
}

// Cost returns the price of a tier, or zero for an unknown tier
func (e *Engine) Cost(name models.QuizTier) int64 {
	return e.tiers[name].Cost
}

// Reward returns the payout for a perfect score, or zero for an unknown tier
func (e *Engine) Reward(name models.QuizTier) int64 {
	return e.tiers[name].Reward
}

// PublicQuestions returns the tier's questions without their answers
func (e *Engine) PublicQuestions(name models.QuizTier) ([]PublicQuestion, error) {
	t, ok := e.tiers[name]
	if !ok {
		return nil, fmt.Errorf("unknown quiz tier %q", name)
	}

	out := make([]PublicQuestion, len(t.Questions))
	for i, q := range t.Questions {
		options := make([]string, len(q.Options))
		copy(options, q.Options)
		out[i] = PublicQuestion{Question: q.Prompt, Options: options}
	}
	return out, nil
}

// Score compares answers position by position against the bank. A nil entry
// is an unanswered question. Missing or unanswered positions count as wrong
// and extra answers are ignored.
func (e *Engine) Score(name models.QuizTier, answers []*int) (Result, error) {
	t, ok := e.tiers[name]
	if !ok {
		return Result{}, fmt.Errorf("unknown quiz tier %q", name)
	}

	res := Result{Total: len(t.Questions)}
	for i, q := range t.Questions {
		if i < len(answers) && answers[i] != nil && *answers[i] == q.Correct {
			res.Correct++
		}
	}
	res.AllCorrect = res.Correct == res.Total
	return res, nil
}

// Availability reports, for every tier, whether it can still be taken given
// the attempts already made on the current day.
func Availability(today []*models.QuizAttempt) map[models.QuizTier]bool {
	available := make(map[models.QuizTier]bool, len(models.AllQuizTiers))
	for _, tier := range models.AllQuizTiers {
		available[tier] = true
	}
	for _, a := range today {
		available[a.Tier] = false
	}
	return available
}
