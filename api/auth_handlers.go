package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

const (
	errorRedirectNoCode     = "/?error=no_code"
	errorRedirectAuthFailed = "/?error=auth_failed"
)

// handleLogin sends the browser to the identity provider
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.state.Issue(w)
	if err != nil {
		log.WithError(err).Error("Failed to issue OAuth state")
		http.Redirect(w, r, errorRedirectAuthFailed, http.StatusFound)
		return
	}
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// handleCallback completes the login. Every failure ends in a redirect with an
// error indicator and leaves no session behind.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.WithField("requestID", middleware.GetReqID(ctx))

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, errorRedirectNoCode, http.StatusFound)
		return
	}

	if err := h.state.Verify(w, r, r.URL.Query().Get("state")); err != nil {
		logger.WithError(err).Warn("Rejected OAuth callback")
		http.Redirect(w, r, errorRedirectAuthFailed, http.StatusFound)
		return
	}

	profile, err := h.provider.Authenticate(ctx, code)
	if err != nil {
		logger.WithError(err).Warn("OAuth login failed")
		http.Redirect(w, r, errorRedirectAuthFailed, http.StatusFound)
		return
	}

	user, err := h.accounts.GetOrCreateUser(ctx, profile.ID, profile.DisplayName)
	if err != nil {
		logger.WithError(err).Error("Failed to load user after login")
		http.Redirect(w, r, errorRedirectAuthFailed, http.StatusFound)
		return
	}

	if _, err := h.sessions.Create(ctx, w, user); err != nil {
		logger.WithError(err).Error("Failed to create session")
		http.Redirect(w, r, errorRedirectAuthFailed, http.StatusFound)
		return
	}

	logger.WithField("userID", user.ID).Info("User logged in")
	http.Redirect(w, r, h.loginSuccessPath, http.StatusFound)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		log.WithError(err).Warn("Failed to destroy session")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
