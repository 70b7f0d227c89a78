// Package report converts rendered HTML documents to PDF through Gotenberg.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotConfigured is returned when no Gotenberg endpoint is set.
var ErrNotConfigured = errors.New("report: gotenberg not configured")

// Client wraps interactions with the Gotenberg API.
type Client struct {
	http *resty.Client
}

// NewClient constructs a new client. An empty baseURL yields a nil client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{http: resty.New().SetBaseURL(baseURL).SetTimeout(timeout)}
}

// Ping checks if the remote Gotenberg service is available.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return ErrNotConfigured
	}
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("report: ping: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("report: gotenberg returned status %d", resp.StatusCode())
	}
	return nil
}

// RenderHTML converts an HTML document into a PDF.
func (c *Client) RenderHTML(ctx context.Context, html []byte) ([]byte, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("files", "index.html", bytes.NewReader(html)).
		SetFormData(map[string]string{"printBackground": "true"}).
		Post("/forms/chromium/convert/html")
	if err != nil {
		return nil, fmt.Errorf("report: render: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("report: render failed with status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
