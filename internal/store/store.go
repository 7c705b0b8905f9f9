package store

import (
	"context"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (sqlstore for
// postgres/sqlite, memstore for tests). Every read and write is scoped by the
// owning user; unknown or foreign ids surface model.ErrNotFound.
type Store interface {
	Users() Users
	Persons() Persons
	Places() Places
	Events() Events
	Memories() Memories
	Reflections() Reflections
	Attributes() Attributes
	Collections() Collections
}

type Users interface {
	// EnsureByExternalID returns the user for an auth-provider subject,
	// creating the user and their default collection on first sight.
	EnsureByExternalID(ctx context.Context, externalID, email string) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	SetPlan(ctx context.Context, userID, plan string, quota int) error
	// RecordBillingEvent remembers a processed webhook event id. It returns
	// false when the id was seen before, so redelivery can be skipped.
	RecordBillingEvent(ctx context.Context, eventID string) (bool, error)
}

type Persons interface {
	Create(ctx context.Context, p *model.Person) (*model.Person, error)
	Get(ctx context.Context, ownerID, personID string) (*model.Person, error)
	List(ctx context.Context, ownerID string) ([]*model.Person, error)
	Search(ctx context.Context, ownerID, query string) ([]*model.Person, error)
	Update(ctx context.Context, ownerID, personID string, upd model.PersonUpdate) (*model.Person, error)
	Delete(ctx context.Context, ownerID, personID string) error
}

type Places interface {
	Create(ctx context.Context, p *model.Place) (*model.Place, error)
	Get(ctx context.Context, ownerID, placeID string) (*model.Place, error)
	List(ctx context.Context, ownerID string) ([]*model.Place, error)
	Search(ctx context.Context, ownerID, query string) ([]*model.Place, error)
	Update(ctx context.Context, ownerID, placeID string, upd model.PlaceUpdate) (*model.Place, error)
	// Delete removes the place and clears it from events and memories that
	// referenced it, in one transaction.
	Delete(ctx context.Context, ownerID, placeID string) error
}

type Events interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	Get(ctx context.Context, ownerID, eventID string) (*model.Event, error)
	List(ctx context.Context, ownerID string) ([]*model.Event, error)
	Search(ctx context.Context, ownerID, query string) ([]*model.Event, error)
	// Update re-derives the place of attached memories when PlaceID changes.
	Update(ctx context.Context, ownerID, eventID string, upd model.EventUpdate) (*model.Event, error)
	// Delete detaches the event from memories and clears their derived place.
	Delete(ctx context.Context, ownerID, eventID string) error
}

// Memories is the association engine's persistence surface. SetPeople,
// SetEvent and SetPlace each run as one transaction so a crash mid-way can
// never leave a memory with a place that contradicts its event.
type Memories interface {
	Create(ctx context.Context, m *model.Memory) (*model.Memory, error)
	Get(ctx context.Context, ownerID, memoryID string) (*model.Memory, error)
	List(ctx context.Context, ownerID string) ([]*model.Memory, error)
	Search(ctx context.Context, ownerID, query string) ([]*model.Memory, error)
	Delete(ctx context.Context, ownerID, memoryID string) error

	// SetPeople replaces the full person set (delete-all-then-insert).
	SetPeople(ctx context.Context, ownerID, memoryID string, personIDs []string) (*model.Memory, error)
	// SetEvent attaches or detaches (nil) an event and keeps the derived
	// place consistent.
	SetEvent(ctx context.Context, ownerID, memoryID string, eventID *string) (*model.Memory, error)
	// SetPlace replaces the place association. It fails with
	// model.ErrConflict while an event-derived place is active and the
	// request differs from it.
	SetPlace(ctx context.Context, ownerID, memoryID string, placeID *string) (*model.Memory, error)
	// UpdateDetails changes scalar fields only; associations are untouched.
	UpdateDetails(ctx context.Context, ownerID, memoryID string, upd model.MemoryUpdate) (*model.Memory, error)
}

type Reflections interface {
	Create(ctx context.Context, r *model.Reflection) (*model.Reflection, error)
	Get(ctx context.Context, ownerID, memoryID, reflectionID string) (*model.Reflection, error)
	ListByMemory(ctx context.Context, ownerID, memoryID string) ([]*model.Reflection, error)
	Update(ctx context.Context, ownerID, memoryID, reflectionID string, upd model.ReflectionUpdate) (*model.Reflection, error)
	Delete(ctx context.Context, ownerID, memoryID, reflectionID string) error
}

type Attributes interface {
	// Create is idempotent: an existing attribute with the same name
	// (case-insensitive) in the same owner+entityType scope is returned
	// instead of duplicated.
	Create(ctx context.Context, a *model.Attribute) (*model.Attribute, error)
	ListByEntityType(ctx context.Context, ownerID, entityType string) ([]*model.Attribute, error)
	Search(ctx context.Context, ownerID, entityType, query string) ([]*model.Attribute, error)
}

type Collections interface {
	Create(ctx context.Context, c *model.Collection) (*model.Collection, error)
	Get(ctx context.Context, ownerID, collectionID string) (*model.Collection, error)
	List(ctx context.Context, ownerID string) ([]*model.Collection, error)
	Update(ctx context.Context, ownerID, collectionID string, upd model.CollectionUpdate) (*model.Collection, error)
	Delete(ctx context.Context, ownerID, collectionID string) error
}
