package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"donutsmp/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const withdrawalEmbedColor = 0xF59E0B

// DiscordWebhookNotifier posts withdrawal requests to a Discord channel
// webhook so staff can pay them out in game
type DiscordWebhookNotifier struct {
	webhookID string
	token     string
	session   *discordgo.Session
	timeout   time.Duration
	now       func() time.Time
}

// NewDiscordWebhookNotifier creates a notifier for webhookURL. An empty or
// malformed URL leaves the notifier disabled.
func NewDiscordWebhookNotifier(webhookURL string, timeout time.Duration) *DiscordWebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	n := &DiscordWebhookNotifier{
		timeout: timeout,
		now:     time.Now,
	}

	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return n
	}
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		log.WithError(err).Warn("Ignoring invalid Discord webhook URL")
		return n
	}

	// Webhook execution is authorized by the token in the path, not a bot token
	s, _ := discordgo.New("")
	s.Client = &http.Client{Timeout: timeout}
	s.ShouldRetryOnRateLimit = false
	s.MaxRestRetries = 0

	n.webhookID, n.token, n.session = id, token, s
	return n
}

// parseWebhookURL extracts the id and token from
// https://discord.com/api/webhooks/{id}/{token}
func parseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse webhook URL: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("webhook URL has no /webhooks/{id}/{token} path")
}

// Enabled reports whether a usable webhook URL is configured
func (n *DiscordWebhookNotifier) Enabled() bool {
	return n.session != nil
}

// Register subscribes the notifier to withdrawal events. It does nothing when
// no webhook URL is configured.
func (n *DiscordWebhookNotifier) Register(bus *events.Bus) {
	if !n.Enabled() {
		log.Info("Discord webhook URL not set, withdrawal notifications disabled")
		return
	}
	bus.Subscribe(events.EventTypeWithdrawalRequested, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.WithdrawalRequestedEvent)
		if !ok {
			return
		}
		if err := n.NotifyWithdrawal(ctx, e); err != nil {
			log.WithFields(log.Fields{
				"withdrawalID": e.WithdrawalID,
				"userID":       e.UserID,
				"error":        err,
			}).Error("Failed to send withdrawal notification")
		}
	})
}

// NotifyWithdrawal posts one withdrawal request to the webhook
func (n *DiscordWebhookNotifier) NotifyWithdrawal(ctx context.Context, e events.WithdrawalRequestedEvent) error {
	if !n.Enabled() {
		return fmt.Errorf("discord webhook not configured")
	}

	params := &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{{
			Title: "💰 Withdrawal Request",
			Color: withdrawalEmbedColor,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Discord User", Value: e.DisplayName, Inline: true},
				{Name: "Minecraft Username", Value: e.GameUsername, Inline: true},
				{Name: "Amount", Value: formatAmount(e.Amount), Inline: true},
			},
			Timestamp: n.now().UTC().Format(time.RFC3339),
		}},
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if _, err := n.session.WebhookExecute(n.webhookID, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to execute webhook: %w", err)
	}

	log.WithField("withdrawalID", e.WithdrawalID).Debug("Sent withdrawal notification")
	return nil
}

// formatAmount renders an amount with comma thousands separators
func formatAmount(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
