// Package upstream wraps the remote POS API the dashboard reads from. It is
// a plain request/response client; retry and URL failover live in the edge
// proxy in front of the API and are not this client's concern.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tavola-pos/tavola-admin/internal/stats"
)

const dateLayout = "2006-01-02"

// Client talks to the upstream POS API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ping checks whether the upstream API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/api/health", nil)
	return err
}

// FetchSales returns the sales-aggregate records for a branch.
func (c *Client) FetchSales(ctx context.Context, branchID string, rng stats.DateRange) (json.RawMessage, error) {
	return c.get(ctx, "/api/sales", rangeQuery(branchID, rng))
}

// FetchBills returns the raw bill records for a branch.
func (c *Client) FetchBills(ctx context.Context, branchID string, rng stats.DateRange) (json.RawMessage, error) {
	return c.get(ctx, "/api/bills", rangeQuery(branchID, rng))
}

// FetchOrders returns the order records for a branch.
func (c *Client) FetchOrders(ctx context.Context, branchID string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("branch_id", branchID)
	return c.get(ctx, "/api/orders", query)
}

// FetchLastDayend returns the day-end closing events for a branch.
func (c *Client) FetchLastDayend(ctx context.Context, branchID string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("branch_id", branchID)
	return c.get(ctx, "/api/dayend/last", query)
}

// FetchBranches returns the branch directory.
func (c *Client) FetchBranches(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/branches", nil)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("upstream: %s returned status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream: read %s: %w", path, err)
	}
	return json.RawMessage(body), nil
}

func rangeQuery(branchID string, rng stats.DateRange) url.Values {
	query := url.Values{}
	query.Set("branch_id", branchID)
	if !rng.From.IsZero() {
		query.Set("from", rng.From.Format(dateLayout))
	}
	if !rng.To.IsZero() {
		query.Set("to", rng.To.Format(dateLayout))
	}
	return query
}
