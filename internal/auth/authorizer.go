package auth

import (
	"context"
)

// Identity describes an authenticated principal as reported by the auth
// provider. ExternalID is the provider subject; the account row is looked up
// (or created) from it on each request.
type Identity struct {
	ExternalID string `json:"externalId"`
	Email      string `json:"email"`
}

// Authorizer validates a bearer token and resolves it to an identity.
type Authorizer interface {
	// Authorize validates the token and returns the identity it carries, or
	// an error when the token is missing, malformed or rejected.
	Authorize(ctx context.Context, token string) (*Identity, error)
}
