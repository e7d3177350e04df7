package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"donutsmp/service"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// respondWithJSON writes payload as a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Failed to marshal response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithSuccess(w http.ResponseWriter) {
	respondWithJSON(w, http.StatusOK, successResponse{Success: true})
}

// respondWithServiceError maps a service error to its HTTP status. Unknown
// errors are logged and reported as a generic 500.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, service.ErrInsufficientBalance):
		respondWithError(w, http.StatusBadRequest, "Insufficient balance")
	case errors.Is(err, service.ErrInvalidAmount):
		respondWithError(w, http.StatusBadRequest, "Invalid amount")
	case errors.Is(err, service.ErrInvalidTier):
		respondWithError(w, http.StatusBadRequest, "Invalid difficulty")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, service.ErrAlreadyAttemptedToday):
		respondWithError(w, http.StatusForbidden, "Quiz already taken today")
	case errors.Is(err, service.ErrQuizNotStarted):
		respondWithError(w, http.StatusConflict, "Quiz has not been started")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found")
	default:
		log.WithFields(log.Fields{
			"requestID": middleware.GetReqID(r.Context()),
			"method":    r.Method,
			"path":      r.URL.Path,
			"error":     err,
		}).Error("Request failed")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
