package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"donutsmp/models"
	"donutsmp/service"
)

const maxBalanceHistoryLimit = 100

type userResponse struct {
	ID           int64   `json:"id"`
	DisplayName  string  `json:"displayName"`
	GameUsername *string `json:"gameUsername"`
	Balance      int64   `json:"balance"`
}

type withdrawalResponse struct {
	GameUsername string                  `json:"gameUsername"`
	Amount       int64                   `json:"amount"`
	Status       models.WithdrawalStatus `json:"status"`
	RequestedAt  time.Time               `json:"requestedAt"`
}

type balanceHistoryResponse struct {
	ChangeAmount    int64                  `json:"changeAmount"`
	BalanceAfter    int64                  `json:"balanceAfter"`
	TransactionType models.TransactionType `json:"transactionType"`
	CreatedAt       time.Time              `json:"createdAt"`
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	user, err := h.accounts.GetProfile(r.Context(), s.UserID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, userResponse{
		ID:           user.ID,
		DisplayName:  user.DisplayName,
		GameUsername: user.GameUsername,
		Balance:      user.Balance,
	})
}

func (h *Handler) handleSetGameUsername(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	var req struct {
		GameUsername string `json:"gameUsername"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.accounts.LinkGameUsername(r.Context(), s.UserID, req.GameUsername); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithSuccess(w)
}

func (h *Handler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	if _, err := h.accounts.Credit(r.Context(), s.UserID, req.Amount); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithSuccess(w)
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	var req struct {
		GameUsername string `json:"gameUsername"`
		Amount       int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid withdrawal request")
		return
	}

	_, err := h.accounts.RequestWithdrawal(r.Context(), s.UserID, req.GameUsername, req.Amount)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithSuccess(w)
}

func (h *Handler) handleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	withdrawals, err := h.accounts.ListWithdrawals(r.Context(), s.UserID, service.DefaultWithdrawalListLimit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	resp := make([]withdrawalResponse, 0, len(withdrawals))
	for _, wd := range withdrawals {
		resp = append(resp, withdrawalResponse{
			GameUsername: wd.GameUsername,
			Amount:       wd.Amount,
			Status:       wd.Status,
			RequestedAt:  wd.RequestedAt,
		})
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleBalanceHistory(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxBalanceHistoryLimit)
	}

	history, err := h.accounts.BalanceHistory(r.Context(), s.UserID, limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	resp := make([]balanceHistoryResponse, 0, len(history))
	for _, entry := range history {
		resp = append(resp, balanceHistoryResponse{
			ChangeAmount:    entry.ChangeAmount,
			BalanceAfter:    entry.BalanceAfter,
			TransactionType: entry.TransactionType,
			CreatedAt:       entry.CreatedAt,
		})
	}
	respondWithJSON(w, http.StatusOK, resp)
}
