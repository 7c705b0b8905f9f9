package services

import (
	"context"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// CollectionService orchestrates collection use cases. The default
// collection is created by the store during user provisioning; deleting it is
// refused here.
type CollectionService struct {
	store store.Store
}

func NewCollectionService(s store.Store) *CollectionService { return &CollectionService{store: s} }

func (s *CollectionService) CreateCollection(ctx context.Context, c *model.Collection) (*model.Collection, error) {
	if c.Name == "" {
		return nil, invalid("name is required")
	}
	return s.store.Collections().Create(ctx, c)
}

func (s *CollectionService) GetCollection(ctx context.Context, ownerID, collectionID string) (*model.Collection, error) {
	return s.store.Collections().Get(ctx, ownerID, collectionID)
}

func (s *CollectionService) ListCollections(ctx context.Context, ownerID string) ([]*model.Collection, error) {
	return s.store.Collections().List(ctx, ownerID)
}

func (s *CollectionService) UpdateCollection(ctx context.Context, ownerID, collectionID string, upd model.CollectionUpdate) (*model.Collection, error) {
	if upd.Name.IsClear() {
		return nil, invalid("name cannot be cleared")
	}
	return s.store.Collections().Update(ctx, ownerID, collectionID, upd)
}

func (s *CollectionService) DeleteCollection(ctx context.Context, ownerID, collectionID string) error {
	u, err := s.store.Users().Get(ctx, ownerID)
	if err == nil && u.DefaultCollectionID == collectionID {
		return invalid("the default collection cannot be deleted")
	}
	return s.store.Collections().Delete(ctx, ownerID, collectionID)
}
