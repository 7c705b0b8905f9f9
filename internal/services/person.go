package services

import (
	"context"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// PersonService orchestrates person use cases.
type PersonService struct {
	store store.Store
}

func NewPersonService(s store.Store) *PersonService { return &PersonService{store: s} }

func (s *PersonService) CreatePerson(ctx context.Context, p *model.Person) (*model.Person, error) {
	if p.Name == "" {
		return nil, invalid("name is required")
	}
	return s.store.Persons().Create(ctx, p)
}

func (s *PersonService) GetPerson(ctx context.Context, ownerID, personID string) (*model.Person, error) {
	return s.store.Persons().Get(ctx, ownerID, personID)
}

func (s *PersonService) ListPersons(ctx context.Context, ownerID string) ([]*model.Person, error) {
	return s.store.Persons().List(ctx, ownerID)
}

func (s *PersonService) SearchPersons(ctx context.Context, ownerID, query string) ([]*model.Person, error) {
	return s.store.Persons().Search(ctx, ownerID, query)
}

// UpdatePerson applies a partial update. A person can never be their own
// spouse or child.
func (s *PersonService) UpdatePerson(ctx context.Context, ownerID, personID string, upd model.PersonUpdate) (*model.Person, error) {
	if v, ok := upd.SpouseID.Value(); ok && v == personID {
		return nil, invalid("person cannot be their own spouse")
	}
	if ids, ok := upd.ChildrenIDs.Value(); ok {
		for _, id := range ids {
			if id == personID {
				return nil, invalid("person cannot be their own child")
			}
		}
	}
	return s.store.Persons().Update(ctx, ownerID, personID, upd)
}

func (s *PersonService) DeletePerson(ctx context.Context, ownerID, personID string) error {
	return s.store.Persons().Delete(ctx, ownerID, personID)
}
