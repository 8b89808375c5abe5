// Package notify contains Notifier implementations for ticket change
// events.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/tickethook/internal/ports/secondary"
)

// LogNotifier writes change events to the structured log. Used when no
// webhook target is configured.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the event at info level.
func (n *LogNotifier) Notify(ctx context.Context, event secondary.TicketChangeEvent) error {
	n.log.Info().
		Int("ticket", event.TicketID).
		Str("status", event.Status).
		Str("author", event.Author).
		Msg("ticket updated")
	return nil
}

// WebhookNotifier POSTs change events as JSON to a configured URL.
type WebhookNotifier struct {
	url  string
	http *http.Client
	log  zerolog.Logger
}

// NewWebhookNotifier creates a webhook notifier for the given URL.
func NewWebhookNotifier(url string, log zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

// Notify delivers the event to the webhook.
func (n *WebhookNotifier) Notify(ctx context.Context, event secondary.TicketChangeEvent) error {
	if n.url == "" {
		return fmt.Errorf("notify: missing webhook url")
	}
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: failed to marshal event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", n.url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("notify: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notify: webhook status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

// Ensure both notifiers implement the port.
var (
	_ secondary.Notifier = (*LogNotifier)(nil)
	_ secondary.Notifier = (*WebhookNotifier)(nil)
)
