package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures the HTTP surface
type RouterOptions struct {
	AllowedOrigins []string
	StaticDir      string
	RequestTimeout time.Duration
}

// NewRouter creates the chi router serving the site
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("healthy"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.handleLogin)
		r.Get("/discord", h.handleLogin)
		r.Get("/callback", h.handleCallback)
		r.Get("/discord/callback", h.handleCallback)
		r.Get("/logout", h.handleLogout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(RequireSession(h.sessions))

		r.Get("/user", h.handleGetUser)
		r.Post("/user/game-username", h.handleSetGameUsername)
		r.Post("/deposit", h.handleDeposit)
		r.Post("/withdraw", h.handleWithdraw)
		r.Get("/withdrawals", h.handleListWithdrawals)
		r.Get("/balance-history", h.handleBalanceHistory)

		r.Get("/quiz/availability", h.handleQuizAvailability)
		r.Get("/quiz/{tier}", h.handleStartQuiz)
		r.Post("/quiz/{tier}/submit", h.handleSubmitQuiz)
	})

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return r
}
