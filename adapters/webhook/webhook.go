// Package webhook delivers alert messages to a configured webhook endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier posts alert messages to a webhook accepting {"content": "..."}.
type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier registers the webhook endpoint.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type payload struct {
	Content string `json:"content"`
}

// Notify posts the message. Any non-2xx response is a delivery failure.
func (n *Notifier) Notify(ctx context.Context, content string) error {
	if n.url == "" {
		return fmt.Errorf("webhook notifier misconfigured: no url")
	}

	body, err := json.Marshal(payload{Content: content})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook error: %s", resp.Status)
	}

	return nil
}
