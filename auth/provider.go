package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"
)

// ErrAuthFailed is returned for any failure talking to the identity provider
var ErrAuthFailed = errors.New("authentication failed")

// Profile is the identity returned by a provider after a successful login
type Profile struct {
	ID          string
	DisplayName string
}

// Provider runs the authorization-code flow against an external identity
// provider
type Provider interface {
	// AuthCodeURL returns the URL the browser is sent to for login
	AuthCodeURL(state string) string

	// Authenticate exchanges an authorization code for the user's profile
	Authenticate(ctx context.Context, code string) (*Profile, error)
}

// DiscordConfig configures DiscordProvider. AuthURL and TokenURL default to
// Discord's OAuth2 endpoints.
type DiscordConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Timeout      time.Duration

	AuthURL  string
	TokenURL string
}

// DiscordProvider logs users in with Discord OAuth2 and the identify scope
type DiscordProvider struct {
	oauth      *oauth2.Config
	httpClient *http.Client
}

var _ Provider = (*DiscordProvider)(nil)

// NewDiscordProvider creates a Discord identity provider
func NewDiscordProvider(cfg DiscordConfig) *DiscordProvider {
	if cfg.AuthURL == "" {
		cfg.AuthURL = discordgo.EndpointAPI + "oauth2/authorize"
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = discordgo.EndpointAPI + "oauth2/token"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &DiscordProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *DiscordProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *DiscordProvider) Authenticate(ctx context.Context, code string) (*Profile, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("empty authorization code: %w", ErrAuthFailed)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %v: %w", err, ErrAuthFailed)
	}

	user, err := p.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	name := user.Username
	if name == "" {
		name = user.GlobalName
	}
	return &Profile{ID: user.ID, DisplayName: name}, nil
}

// fetchUser reads the logged-in user with the OAuth access token. discordgo
// sends the session token verbatim as the Authorization header.
func (p *DiscordProvider) fetchUser(ctx context.Context, token *oauth2.Token) (*discordgo.User, error) {
	s, err := discordgo.New(token.Type() + " " + token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %v: %w", err, ErrAuthFailed)
	}
	s.Client = p.httpClient
	s.ShouldRetryOnRateLimit = false
	s.MaxRestRetries = 0

	user, err := s.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %v: %w", err, ErrAuthFailed)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("profile has no id: %w", ErrAuthFailed)
	}
	return user, nil
}
