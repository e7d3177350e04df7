package api

import (
	"encoding/json"
	"net/http"

	"donutsmp/models"
	"donutsmp/quiz"
	"donutsmp/service"

	"github.com/go-chi/chi/v5"
)

type startQuizResponse struct {
	Questions []quiz.PublicQuestion `json:"questions"`
	Cost      int64                 `json:"cost"`
}

type submitQuizResponse struct {
	CorrectAnswers int   `json:"correctAnswers"`
	TotalQuestions int   `json:"totalQuestions"`
	AllCorrect     bool  `json:"allCorrect"`
	Reward         int64 `json:"reward"`
	Passed         bool  `json:"passed"`
}

func tierParam(r *http.Request) (models.QuizTier, bool) {
	return models.ParseQuizTier(chi.URLParam(r, "tier"))
}

func (h *Handler) handleQuizAvailability(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	available, err := h.accounts.QuizAvailability(r.Context(), s.UserID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	resp := make(map[string]bool, len(models.AllQuizTiers))
	for _, tier := range models.AllQuizTiers {
		resp[string(tier)] = available[tier]
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// handleStartQuiz charges the tier cost and hands out the questions
func (h *Handler) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	tier, ok := tierParam(r)
	if !ok {
		respondWithServiceError(w, r, service.ErrInvalidTier)
		return
	}

	questions, err := h.quizzes.PublicQuestions(tier)
	if err != nil {
		respondWithServiceError(w, r, service.ErrInvalidTier)
		return
	}

	purchase, err := h.accounts.PurchaseQuiz(r.Context(), s.UserID, tier)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, startQuizResponse{
		Questions: questions,
		Cost:      purchase.Cost,
	})
}

func (h *Handler) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	tier, ok := tierParam(r)
	if !ok {
		respondWithServiceError(w, r, service.ErrInvalidTier)
		return
	}

	// null entries are unanswered questions
	var req struct {
		Answers []*int `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.quizzes.Score(tier, req.Answers)
	if err != nil {
		respondWithServiceError(w, r, service.ErrInvalidTier)
		return
	}

	settlement, err := h.accounts.SettleQuiz(r.Context(), s.UserID, tier, result.Correct, result.AllCorrect)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, submitQuizResponse{
		CorrectAnswers: result.Correct,
		TotalQuestions: result.Total,
		AllCorrect:     settlement.AllCorrect,
		Reward:         settlement.Reward,
		Passed:         settlement.AllCorrect,
	})
}
