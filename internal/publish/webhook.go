package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vk/jsbm/internal/ctxlog"
	"github.com/vk/jsbm/internal/report"
)

// DefaultWebhookTimeout bounds a single webhook request when none is given.
const DefaultWebhookTimeout = 10 * time.Second

// Webhook POSTs every result as a JSON object to a URL.
type Webhook struct {
	client *http.Client
	url    string
}

// NewWebhook returns a webhook publisher for rawURL.
func NewWebhook(rawURL string, timeout time.Duration) (*Webhook, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("failed to parse URL: %q is not an http(s) URL", rawURL)
	}
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}

	return &Webhook{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		url: rawURL,
	}, nil
}

// Publish sends r and fails on any non-2xx response.
func (w *Webhook) Publish(ctx context.Context, r report.Result) error {
	body, err := json.Marshal(payload(r))
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	ctxlog.FromContext(ctx).Debug("Webhook responded.", "url", w.url, "status", resp.Status)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded with %s", resp.Status)
	}
	return nil
}

// Close releases idle connections.
func (w *Webhook) Close() error {
	w.client.CloseIdleConnections()
	return nil
}
