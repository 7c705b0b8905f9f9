package services

import (
	"context"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// UserService handles account operations.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

// EnsureUser resolves (and lazily provisions) the account for an auth
// subject. Called on /api/auth/sync and by the auth middleware.
func (s *UserService) EnsureUser(ctx context.Context, externalID, email string) (*model.User, error) {
	return s.store.Users().EnsureByExternalID(ctx, externalID, email)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}
