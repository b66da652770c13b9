package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"solana-token-sentinel/internal/domain"
)

// Notifier receives completed alerts. Implementations render the
// recommendation and risk lists as-is; formatting policy stays
// downstream.
type Notifier interface {
	Notify(ctx context.Context, a *domain.Alert) error
}

const notifyTimeout = 10 * time.Second

// WebhookNotifier POSTs the alert as JSON to a configured URL.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier creates a webhook notifier.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: notifyTimeout},
	}
}

// Notify delivers the alert payload.
func (n *WebhookNotifier) Notify(ctx context.Context, a *domain.Alert) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// TelegramNotifier sends a text rendering of the alert through the
// Telegram Bot API.
type TelegramNotifier struct {
	apiBase    string
	token      string
	chatID     string
	httpClient *http.Client
}

// NewTelegramNotifier creates a Telegram notifier for one chat.
func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		apiBase:    "https://api.telegram.org",
		token:      token,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: notifyTimeout},
	}
}

// Notify renders the alert as a message and sends it.
func (n *TelegramNotifier) Notify(ctx context.Context, a *domain.Alert) error {
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", renderMessage(a))

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// renderMessage flattens an alert into plain text, lists verbatim.
func renderMessage(a *domain.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", a.Token.Name, a.Token.Symbol)
	fmt.Fprintf(&b, "mint: %s\n", a.Token.Mint)
	fmt.Fprintf(&b, "setup: %s | score: %d/100 | checks: %d/%d | tier %d\n", a.Setup, a.CompositeScore, a.Passed, a.Total, a.TierReached)
	if len(a.Recommendations) > 0 {
		b.WriteString("\n")
		for _, r := range a.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	if len(a.Risks) > 0 {
		b.WriteString("\nrisks:\n")
		for _, r := range a.Risks {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	return b.String()
}

// MultiNotifier fans one alert out to several notifiers. Delivery
// failures are logged and do not block the remaining notifiers.
type MultiNotifier struct {
	notifiers []Notifier
	logger    zerolog.Logger
}

// NewMultiNotifier creates a fan-out notifier.
func NewMultiNotifier(logger zerolog.Logger, notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{
		notifiers: notifiers,
		logger:    logger.With().Str("component", "notify").Logger(),
	}
}

// Notify delivers to every notifier, returning the first error after
// all have been attempted.
func (n *MultiNotifier) Notify(ctx context.Context, a *domain.Alert) error {
	var firstErr error
	for _, notifier := range n.notifiers {
		if err := notifier.Notify(ctx, a); err != nil {
			n.logger.Warn().Err(err).Str("mint", a.Token.Mint).Msg("notifier delivery failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
