package services

import (
	"context"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// ReflectionService orchestrates reflection use cases.
type ReflectionService struct {
	store store.Store
}

func NewReflectionService(s store.Store) *ReflectionService { return &ReflectionService{store: s} }

func (s *ReflectionService) CreateReflection(ctx context.Context, r *model.Reflection) (*model.Reflection, error) {
	if r.Content == "" {
		return nil, invalid("content is required")
	}
	return s.store.Reflections().Create(ctx, r)
}

func (s *ReflectionService) GetReflection(ctx context.Context, ownerID, memoryID, reflectionID string) (*model.Reflection, error) {
	return s.store.Reflections().Get(ctx, ownerID, memoryID, reflectionID)
}

func (s *ReflectionService) ListReflections(ctx context.Context, ownerID, memoryID string) ([]*model.Reflection, error) {
	return s.store.Reflections().ListByMemory(ctx, ownerID, memoryID)
}

func (s *ReflectionService) UpdateReflection(ctx context.Context, ownerID, memoryID, reflectionID string, upd model.ReflectionUpdate) (*model.Reflection, error) {
	if upd.Content.IsClear() {
		return nil, invalid("content cannot be cleared")
	}
	return s.store.Reflections().Update(ctx, ownerID, memoryID, reflectionID, upd)
}

func (s *ReflectionService) DeleteReflection(ctx context.Context, ownerID, memoryID, reflectionID string) error {
	return s.store.Reflections().Delete(ctx, ownerID, memoryID, reflectionID)
}
