package auth

import (
	"context"
	"errors"
)

const (
	// LocalDevToken is the hardcoded bearer token for local development only.
	LocalDevToken = "sk_local_keepsake_dev_token"
)

// DevAuthorizer is a simple authorizer for local development. It only
// recognizes the hardcoded LocalDevToken and resolves it to a fixed identity,
// so a local stack works without an auth provider.
type DevAuthorizer struct{}

func NewDevAuthorizer() *DevAuthorizer { return &DevAuthorizer{} }

func (d *DevAuthorizer) Authorize(_ context.Context, token string) (*Identity, error) {
	if token != LocalDevToken {
		return nil, errors.New("invalid token for local development")
	}
	return &Identity{
		ExternalID: "keepsake-dev",
		Email:      "dev@keepsake.local",
	}, nil
}
