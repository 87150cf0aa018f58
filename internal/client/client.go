// Package client fetches the item list from the item service.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/items/internal/model"
)

// ErrFetchFailed is wrapped by every error FetchItems returns. Transport
// failures, non-2xx statuses and malformed bodies are not told apart.
var ErrFetchFailed = errors.New("fetch failed")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.Code)
}

// Client talks to a single item endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds a whole request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Endpoint returns the URL the client fetches from.
func (c *Client) Endpoint() string { return c.endpoint }

// FetchItems issues one GET against the endpoint and decodes the JSON array.
// There is no retry.
func (c *Client) FetchItems(ctx context.Context) ([]model.Item, error) {
	start := time.Now()
	items, err := c.fetch(ctx)
	if err != nil {
		c.log.Warn("fetch items failed",
			zap.String("endpoint", c.endpoint),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	c.log.Debug("fetched items",
		zap.String("endpoint", c.endpoint),
		zap.Int("count", len(items)),
		zap.Duration("duration", time.Since(start)))
	return items, nil
}

func (c *Client) fetch(ctx context.Context) ([]model.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, &StatusError{Code: resp.StatusCode, Status: resp.Status})
	}

	var items []model.Item
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: decode body: %w", ErrFetchFailed, err)
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode body: unexpected data after item list", ErrFetchFailed)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}
