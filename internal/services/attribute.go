package services

import (
	"context"
	"strings"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// AttributeService manages the owner-scoped attribute vocabulary.
type AttributeService struct {
	store store.Store
}

func NewAttributeService(s store.Store) *AttributeService { return &AttributeService{store: s} }

// CreateAttribute is create-if-absent: resubmitting an existing name in the
// same scope returns the existing entry.
func (s *AttributeService) CreateAttribute(ctx context.Context, a *model.Attribute) (*model.Attribute, error) {
	if strings.TrimSpace(a.Name) == "" {
		return nil, invalid("name is required")
	}
	return s.store.Attributes().Create(ctx, a)
}

func (s *AttributeService) ListAttributes(ctx context.Context, ownerID, entityType string) ([]*model.Attribute, error) {
	if entityType == "" {
		entityType = model.EntityAll
	}
	return s.store.Attributes().ListByEntityType(ctx, ownerID, entityType)
}

func (s *AttributeService) SearchAttributes(ctx context.Context, ownerID, entityType, query string) ([]*model.Attribute, error) {
	if entityType == "" {
		entityType = model.EntityAll
	}
	return s.store.Attributes().Search(ctx, ownerID, entityType, query)
}
