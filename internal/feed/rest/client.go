// Package rest lists hospital records from the backend's JSON API.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/wardline/wardline/internal/feed"
	"github.com/wardline/wardline/internal/records"
)

// DefaultPaths maps each dataset to its list endpoint.
var DefaultPaths = map[feed.Dataset]string{
	feed.Patients:        "/api/v1/patients",
	feed.Appointments:    "/api/v1/appointments",
	feed.Admissions:      "/api/v1/admissions",
	feed.Invoices:        "/api/v1/billing/invoices",
	feed.LabOrders:       "/api/v1/lab/orders",
	feed.LabResults:      "/api/v1/lab/results",
	feed.PharmacyOrders:  "/api/v1/pharmacy/orders",
	feed.InventoryStocks: "/api/v1/pharmacy/inventory",
	feed.DispenseLogs:    "/api/v1/pharmacy/dispense-logs",
}

// ErrUnknownDataset is returned for datasets without a configured path.
var ErrUnknownDataset = errors.New("feed/rest: no path for dataset")

// Config configures the REST client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Retries int
	Paths   map[feed.Dataset]string
}

// Client implements feed.Source over HTTP.
type Client struct {
	http  *resty.Client
	paths map[feed.Dataset]string
}

// New builds a Client. Paths default to DefaultPaths.
func New(cfg Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	paths := cfg.Paths
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	return &Client{http: client, paths: paths}
}

// List fetches one dataset. Both a bare JSON array and an {"items": [...]}
// envelope are accepted.
func (c *Client) List(ctx context.Context, ds feed.Dataset, params feed.ListParams) ([]records.Record, error) {
	path, ok := c.paths[ds]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, ds)
	}
	req := c.http.R().SetContext(ctx)
	if params.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(params.Limit))
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("feed/rest: %s: %w", ds, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("feed/rest: %s: unexpected status %d", ds, resp.StatusCode())
	}
	list, err := records.DecodeList(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("feed/rest: %s: %w", ds, err)
	}
	return list, nil
}
