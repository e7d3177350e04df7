package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"donutsmp/models"

	log "github.com/sirupsen/logrus"
)

const (
	// CookieName is the browser cookie carrying the session token
	CookieName = "donutsmp_session"

	// DefaultTTL is how long a login lasts
	DefaultTTL = 30 * 24 * time.Hour

	tokenBytes = 32
)

// Store persists sessions keyed by their token
type Store interface {
	// Save inserts or replaces a session
	Save(ctx context.Context, s *models.Session) error

	// Get returns the session for token, or nil if there is none
	Get(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a session. Unknown tokens are ignored.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every session expired at now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// HashToken returns the hex SHA-256 of a token. Stores key sessions on this
// value and never persist the raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NewToken returns a random URL-safe session token
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Options configures a Manager
type Options struct {
	TTL          time.Duration
	SecureCookie bool
}

// Manager issues, resolves and destroys browser sessions
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a session manager backed by store
func NewManager(store Store, opts Options) *Manager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store:  store,
		ttl:    ttl,
		secure: opts.SecureCookie,
		now:    time.Now,
	}
}

// Create starts a session for user and sets the session cookie on w
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, user *models.User) (*models.Session, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	s := &models.Session{
		Token:           token,
		UserID:          user.ID,
		DisplayName:     user.DisplayName,
		BalanceSnapshot: user.Balance,
		CreatedAt:       now,
		ExpiresAt:       now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return s, nil
}

// Resolve returns the session carried by r, or nil when the request has no
// valid session. Expired sessions are removed on sight.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	s, err := m.store.Get(ctx, cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if s == nil {
		return nil, nil
	}

	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, cookie.Value); err != nil {
			log.WithError(err).WithField("userID", s.UserID).Warn("Failed to delete expired session")
		}
		return nil, nil
	}

	return s, nil
}

// Destroy ends the session carried by r, if any, and clears the cookie
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := m.store.Delete(ctx, cookie.Value); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// PurgeExpired removes every expired session from the store
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now())
}
