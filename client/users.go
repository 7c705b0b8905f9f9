package client

import "context"

// SyncUser ensures the authenticated identity has an account and returns it.
// The server provisions the account (and its default collection) lazily, so
// this is safe to call on every session start.
func (c *Client) SyncUser(ctx context.Context) (*User, error) {
	var out User
	if err := c.post(ctx, "/api/auth/sync", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the authenticated user's account.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/api/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCheckoutSession starts a paid-plan checkout and returns the hosted
// payment page URL to redirect the user to.
func (c *Client) CreateCheckoutSession(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.post(ctx, "/api/billing/checkout", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
