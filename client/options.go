package client

import (
	"net/http"
	"time"
)

// Option customizes a Client at construction time.
type Option func(*Client)

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithHTTPClient swaps the underlying transport, e.g. for httptest servers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http.SetTransport(hc.Transport) }
}

// WithDebug enables resty's request/response dump logging.
func WithDebug(enabled bool) Option {
	return func(c *Client) { c.http.SetDebug(enabled) }
}
