package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"review-insights/dashboard/core"
)

const (
	pingEndpoint = "/api/ping"
	runsEndpoint = "/api/runs"
)

// Client reads stored reports from the analyzer REST API.
type Client struct {
	log     *slog.Logger
	client  http.Client
	address string
}

func NewClient(address string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		client:  http.Client{Timeout: timeout},
		log:     log,
		address: address,
	}
}

func (c *Client) Ping(ctx context.Context) (core.PingResponse, error) {
	var reply core.PingResponse
	if err := c.get(ctx, nil, &reply, pingEndpoint); err != nil {
		return core.PingResponse{}, fmt.Errorf("failed to get ping result: %w", err)
	}
	return reply, nil
}

func (c *Client) LatestRun(ctx context.Context) (core.RunInfo, error) {
	var reply struct {
		Runs []core.RunInfo `json:"runs"`
	}
	if err := c.get(ctx, url.Values{"limit": {"1"}}, &reply, runsEndpoint); err != nil {
		return core.RunInfo{}, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(reply.Runs) == 0 {
		return core.RunInfo{}, core.ErrNotFound
	}
	return reply.Runs[0], nil
}

func (c *Client) Report(ctx context.Context, id string) (core.Report, error) {
	var reply core.Report
	if err := c.get(ctx, nil, &reply, runsEndpoint, id); err != nil {
		return core.Report{}, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return reply, nil
}

func (c *Client) get(ctx context.Context, query url.Values, result any, elem ...string) error {
	fullURL, err := url.JoinPath(c.address, elem...)
	if err != nil {
		return fmt.Errorf("cannot join url path: %w", err)
	}
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("cannot create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: cannot get response: %v", core.ErrServiceUnavailable, err)
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusBadRequest:
			return core.ErrBadArguments
		case http.StatusNotFound:
			return core.ErrNotFound
		case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
			return core.ErrServiceUnavailable
		default:
			return fmt.Errorf("unexpected status code %d", resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("cannot decode reply: %w", err)
	}
	return nil
}

func (c *Client) closeBody(body io.Closer) {
	if err := body.Close(); err != nil {
		c.log.Warn("failed to close response body", "error", err)
	}
}
