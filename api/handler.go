package api

import (
	"donutsmp/auth"
	"donutsmp/quiz"
	"donutsmp/service"
	"donutsmp/session"
)

// DefaultLoginSuccessPath is where the browser lands after logging in
const DefaultLoginSuccessPath = "/dashboard.html"

// Handler holds the collaborators the HTTP handlers talk to
type Handler struct {
	accounts         service.AccountService
	quizzes          *quiz.Engine
	sessions         *session.Manager
	provider         auth.Provider
	state            *auth.StateSigner
	loginSuccessPath string
}

// NewHandler creates a new Handler
func NewHandler(
	accounts service.AccountService,
	quizzes *quiz.Engine,
	sessions *session.Manager,
	provider auth.Provider,
	state *auth.StateSigner,
	loginSuccessPath string,
) *Handler {
	if loginSuccessPath == "" {
		loginSuccessPath = DefaultLoginSuccessPath
	}
	return &Handler{
		accounts:         accounts,
		quizzes:          quizzes,
		sessions:         sessions,
		provider:         provider,
		state:            state,
		loginSuccessPath: loginSuccessPath,
	}
}
