package services

import (
	"context"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// EventService orchestrates event use cases. Place changes ripple into
// attached memories inside the store transaction.
type EventService struct {
	store store.Store
}

func NewEventService(s store.Store) *EventService { return &EventService{store: s} }

func (s *EventService) CreateEvent(ctx context.Context, e *model.Event) (*model.Event, error) {
	if e.Title == "" {
		return nil, invalid("title is required")
	}
	if e.Date.IsZero() {
		return nil, invalid("date is required")
	}
	return s.store.Events().Create(ctx, e)
}

func (s *EventService) GetEvent(ctx context.Context, ownerID, eventID string) (*model.Event, error) {
	return s.store.Events().Get(ctx, ownerID, eventID)
}

func (s *EventService) ListEvents(ctx context.Context, ownerID string) ([]*model.Event, error) {
	return s.store.Events().List(ctx, ownerID)
}

func (s *EventService) SearchEvents(ctx context.Context, ownerID, query string) ([]*model.Event, error) {
	return s.store.Events().Search(ctx, ownerID, query)
}

func (s *EventService) UpdateEvent(ctx context.Context, ownerID, eventID string, upd model.EventUpdate) (*model.Event, error) {
	if upd.Title.IsClear() {
		return nil, invalid("title cannot be cleared")
	}
	return s.store.Events().Update(ctx, ownerID, eventID, upd)
}

func (s *EventService) DeleteEvent(ctx context.Context, ownerID, eventID string) error {
	return s.store.Events().Delete(ctx, ownerID, eventID)
}
