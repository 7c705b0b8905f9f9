package services

import (
	"context"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// PlaceService orchestrates place use cases.
type PlaceService struct {
	store store.Store
}

func NewPlaceService(s store.Store) *PlaceService { return &PlaceService{store: s} }

func (s *PlaceService) CreatePlace(ctx context.Context, p *model.Place) (*model.Place, error) {
	if p.Name == "" {
		return nil, invalid("name is required")
	}
	if p.City == "" || p.Country == "" {
		return nil, invalid("city and country are required")
	}
	return s.store.Places().Create(ctx, p)
}

func (s *PlaceService) GetPlace(ctx context.Context, ownerID, placeID string) (*model.Place, error) {
	return s.store.Places().Get(ctx, ownerID, placeID)
}

func (s *PlaceService) ListPlaces(ctx context.Context, ownerID string) ([]*model.Place, error) {
	return s.store.Places().List(ctx, ownerID)
}

func (s *PlaceService) SearchPlaces(ctx context.Context, ownerID, query string) ([]*model.Place, error) {
	return s.store.Places().Search(ctx, ownerID, query)
}

func (s *PlaceService) UpdatePlace(ctx context.Context, ownerID, placeID string, upd model.PlaceUpdate) (*model.Place, error) {
	if upd.Name.IsClear() || upd.City.IsClear() || upd.Country.IsClear() {
		return nil, invalid("name, city and country cannot be cleared")
	}
	return s.store.Places().Update(ctx, ownerID, placeID, upd)
}

// DeletePlace removes the place; events and memories that referenced it are
// detached by the store in the same transaction.
func (s *PlaceService) DeletePlace(ctx context.Context, ownerID, placeID string) error {
	return s.store.Places().Delete(ctx, ownerID, placeID)
}
