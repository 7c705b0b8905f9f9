package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store/memstore"
)

func TestPersonSelfReferenceRejected(t *testing.T) {
	st := memstore.New()
	svc := NewPersonService(st)
	owner := seedOwner(t, st)
	ctx := context.Background()

	p, err := svc.CreatePerson(ctx, &model.Person{OwnerID: owner, Name: "Ana"})
	require.NoError(t, err)

	_, err = svc.UpdatePerson(ctx, owner, p.PersonID, model.PersonUpdate{
		SpouseID: model.Set(p.PersonID),
	})
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.UpdatePerson(ctx, owner, p.PersonID, model.PersonUpdate{
		ChildrenIDs: model.Set([]string{p.PersonID}),
	})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestCreatePersonRequiresName(t *testing.T) {
	st := memstore.New()
	svc := NewPersonService(st)
	owner := seedOwner(t, st)

	_, err := svc.CreatePerson(context.Background(), &model.Person{OwnerID: owner})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestDeleteDefaultCollectionRefused(t *testing.T) {
	st := memstore.New()
	svc := NewCollectionService(st)
	ctx := context.Background()

	u, err := st.Users().EnsureByExternalID(ctx, "coll-owner", "c@example.com")
	require.NoError(t, err)

	err = svc.DeleteCollection(ctx, u.UserID, u.DefaultCollectionID)
	require.ErrorIs(t, err, model.ErrValidation)

	c, err := svc.CreateCollection(ctx, &model.Collection{OwnerID: u.UserID, Name: "Trips"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCollection(ctx, u.UserID, c.CollectionID))
}
