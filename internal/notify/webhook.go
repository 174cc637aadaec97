// Package notify delivers composed messages to a Slack-compatible
// incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/release-notifier/internal/compose"
)

// DefaultTimeout bounds one webhook delivery.
const DefaultTimeout = 20 * time.Second

// maxErrorSnippet limits how much of a rejection body is kept in the error.
const maxErrorSnippet = 512

// DeliveryError reports a webhook response with a non-success status.
type DeliveryError struct {
	Status  int
	Snippet string
}

func (e *DeliveryError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("webhook returned status %d", e.Status)
	}
	return fmt.Sprintf("webhook returned status %d: %s", e.Status, e.Snippet)
}

// Client posts messages to a single incoming webhook URL.
type Client struct {
	webhookURL string
	client     *http.Client
}

// NewClient creates a webhook client. A non-positive timeout falls back
// to DefaultTimeout.
func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Send delivers one message. Any non-2xx response is a *DeliveryError
// carrying a snippet of the response body.
func (c *Client) Send(ctx context.Context, msg compose.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
		return &DeliveryError{Status: resp.StatusCode, Snippet: strings.TrimSpace(string(snippet))}
	}
	return nil
}
