package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/dealflow/internal/config"
)

// WebhookNotifier posts notifications to an external webhook, rate
// limited so a burst of actions cannot hammer the receiving end.
// Delivery failures are logged and swallowed; notifications are
// advisory and must never fail the action that produced them.
type WebhookNotifier struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	url     string
	logger  *logrus.Logger
}

// NewWebhookNotifier creates a webhook notifier from configuration
func NewWebhookNotifier(cfg config.NotificationsConfig, logger *logrus.Logger) *WebhookNotifier {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	retryClient.Logger = nil

	limit := cfg.RateLimitPerSecond
	if limit <= 0 {
		limit = 5
	}

	return &WebhookNotifier{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		url:     cfg.WebhookURL,
		logger:  logger,
	}
}

// Notify posts the notification as JSON to the configured webhook
func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) {
	if w.url == "" {
		return
	}

	if err := w.limiter.Wait(ctx); err != nil {
		w.logger.WithError(err).Debug("Webhook notification dropped while waiting for rate limiter")
		return
	}

	if err := w.post(ctx, n); err != nil {
		w.logger.WithError(err).WithField("title", n.Title).Warn("Failed to deliver webhook notification")
	}
}

func (w *WebhookNotifier) post(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
