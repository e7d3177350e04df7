package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// StateCookieName holds the nonce bound to an in-flight login
	StateCookieName = "oauth_state"

	stateTTL    = 10 * time.Minute
	stateIssuer = "donutsmp"
)

// ErrInvalidState is returned when the callback state does not match the
// login that started it
var ErrInvalidState = errors.New("invalid oauth state")

type stateClaims struct {
	jwt.RegisteredClaims
	Nonce string `json:"nonce"`
}

// StateSigner issues and checks the OAuth state parameter. The state is an
// HS256 token carrying a nonce that must also be present in the browser's
// state cookie.
type StateSigner struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// NewStateSigner creates a signer keyed by secret
func NewStateSigner(secret string, secureCookie bool) *StateSigner {
	return &StateSigner{
		secret: []byte(secret),
		secure: secureCookie,
		now:    time.Now,
	}
}

// Issue returns a signed state value and sets the matching nonce cookie
func (s *StateSigner) Issue(w http.ResponseWriter) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state nonce: %w", err)
	}
	nonce := base64.RawURLEncoding.EncodeToString(b)

	now := s.now()
	claims := stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		},
		Nonce: nonce,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    nonce,
		Path:     "/",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return signed, nil
}

// Verify checks the state returned to the callback against the request's
// state cookie and clears the cookie
func (s *StateSigner) Verify(w http.ResponseWriter, r *http.Request, state string) error {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	cookie, err := r.Cookie(StateCookieName)
	if err != nil || cookie.Value == "" {
		return fmt.Errorf("missing state cookie: %w", ErrInvalidState)
	}
	if state == "" {
		return fmt.Errorf("missing state parameter: %w", ErrInvalidState)
	}

	var claims stateClaims
	_, err = jwt.ParseWithClaims(state, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidState)
	}

	if claims.Nonce != cookie.Value {
		return fmt.Errorf("nonce mismatch: %w", ErrInvalidState)
	}
	return nil
}
