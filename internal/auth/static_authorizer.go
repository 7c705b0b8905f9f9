package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// StaticAuthorizer resolves bearer tokens against a fixed table loaded from
// configuration. Suitable for self-hosted deployments that front the service
// with their own token issuance instead of an auth provider.
type StaticAuthorizer struct {
	idents map[string]Identity
}

// NewStaticAuthorizer parses a token spec of the form
// "token=externalId:email,token2=externalId2:email2".
func NewStaticAuthorizer(spec string) (*StaticAuthorizer, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, errors.New("no API tokens configured")
	}
	idents := make(map[string]Identity)
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		token, ident, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("malformed token entry %q", entry)
		}
		externalID, email, ok := strings.Cut(ident, ":")
		if !ok || token == "" || externalID == "" {
			return nil, fmt.Errorf("malformed token entry %q", entry)
		}
		idents[token] = Identity{ExternalID: externalID, Email: email}
	}
	if len(idents) == 0 {
		return nil, errors.New("no API tokens configured")
	}
	return &StaticAuthorizer{idents: idents}, nil
}

func (s *StaticAuthorizer) Authorize(_ context.Context, token string) (*Identity, error) {
	ident, ok := s.idents[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	out := ident
	return &out, nil
}
