package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/keepsakehq/keepsake/server/internal/mediastore"
	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// MemoryService orchestrates memory use cases: CRUD, the association
// operations, and media cleanup on delete.
type MemoryService struct {
	store store.Store
	media mediastore.MediaStore
}

func NewMemoryService(s store.Store, media mediastore.MediaStore) *MemoryService {
	return &MemoryService{store: s, media: media}
}

func (s *MemoryService) CreateMemory(ctx context.Context, m *model.Memory) (*model.Memory, error) {
	if m.Title == "" {
		return nil, invalid("title is required")
	}
	if m.MediaURL == "" {
		return nil, invalid("media is required")
	}
	return s.store.Memories().Create(ctx, m)
}

func (s *MemoryService) GetMemory(ctx context.Context, ownerID, memoryID string) (*model.Memory, error) {
	return s.store.Memories().Get(ctx, ownerID, memoryID)
}

func (s *MemoryService) ListMemories(ctx context.Context, ownerID string) ([]*model.Memory, error) {
	return s.store.Memories().List(ctx, ownerID)
}

func (s *MemoryService) SearchMemories(ctx context.Context, ownerID, query string) ([]*model.Memory, error) {
	return s.store.Memories().Search(ctx, ownerID, query)
}

// DeleteMemory removes the record and then the stored media. The media
// delete is best-effort: the record is already gone, an orphaned blob only
// costs storage.
func (s *MemoryService) DeleteMemory(ctx context.Context, ownerID, memoryID string) error {
	m, err := s.store.Memories().Get(ctx, ownerID, memoryID)
	if err != nil {
		return err
	}
	if err := s.store.Memories().Delete(ctx, ownerID, memoryID); err != nil {
		return err
	}
	if s.media != nil && m.MediaURL != "" {
		if err := s.media.Delete(ctx, ownerID, m.MediaURL); err != nil {
			log.Warn().Err(err).Str("memoryId", memoryID).Msg("failed to delete media for removed memory")
		}
	}
	return nil
}

// SetPeople replaces the full set of tagged people.
func (s *MemoryService) SetPeople(ctx context.Context, ownerID, memoryID string, personIDs []string) (*model.Memory, error) {
	return s.store.Memories().SetPeople(ctx, ownerID, memoryID, personIDs)
}

// SetEvent attaches or detaches an event. The store keeps the derived place
// consistent inside the same transaction.
func (s *MemoryService) SetEvent(ctx context.Context, ownerID, memoryID string, eventID *string) (*model.Memory, error) {
	return s.store.Memories().SetEvent(ctx, ownerID, memoryID, eventID)
}

// SetPlace replaces the place association. While an event with a place is
// attached the place is derived and locked; the store reports
// model.ErrConflict for any differing request.
func (s *MemoryService) SetPlace(ctx context.Context, ownerID, memoryID string, placeID *string) (*model.Memory, error) {
	return s.store.Memories().SetPlace(ctx, ownerID, memoryID, placeID)
}

func (s *MemoryService) UpdateMemory(ctx context.Context, ownerID, memoryID string, upd model.MemoryUpdate) (*model.Memory, error) {
	if upd.Title.IsClear() {
		return nil, invalid("title cannot be cleared")
	}
	if v, ok := upd.Title.Value(); ok && strings.TrimSpace(v) == "" {
		return nil, invalid("title is required")
	}
	return s.store.Memories().UpdateDetails(ctx, ownerID, memoryID, upd)
}
