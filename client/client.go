// Package client is the Go client for the keepsake REST API. It wraps the
// HTTP surface in typed operations and ships an optimistic Cache for
// mutate-then-reconcile UIs: apply a local guess, replace it with server
// truth on success, roll back on failure.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/keepsakehq/keepsake/server/internal/auth"
)

type Client struct {
	http *resty.Client
}

// New constructs a Client for the given base URL authenticating with apiToken.
func New(baseURL, apiToken string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}
	if apiToken == "" {
		panic("apiToken cannot be empty")
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiToken).
		SetTimeout(30 * time.Second)

	c := &Client{http: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithDevMode constructs a Client using the shared local development token.
// This only works against a server running in development mode.
func NewWithDevMode(baseURL string, opts ...Option) *Client {
	return New(baseURL, auth.LocalDevToken, opts...)
}

// do issues a request and decodes the JSON body into out when non-nil.
// Error responses are turned into *APIError values.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	req.SetError(&errorBody{})

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return newAPIError(resp)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
