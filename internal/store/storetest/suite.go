// Package storetest holds a compliance suite that every store.Store
// implementation must pass. Backends register a factory and run the same
// assertions, so sqlstore and memstore cannot drift apart on the
// association semantics.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// Factory returns a fresh, empty store for one test.
type Factory func(t *testing.T) store.Store

// Run executes the full compliance suite against the given factory.
func Run(t *testing.T, factory Factory) {
	t.Run("UserProvisioning", func(t *testing.T) { testUserProvisioning(t, factory(t)) })
	t.Run("BillingEventDedupe", func(t *testing.T) { testBillingEventDedupe(t, factory(t)) })
	t.Run("PersonLifecycle", func(t *testing.T) { testPersonLifecycle(t, factory(t)) })
	t.Run("PersonDeleteCascade", func(t *testing.T) { testPersonDeleteCascade(t, factory(t)) })
	t.Run("PlaceDeleteClearsReferences", func(t *testing.T) { testPlaceDeleteClearsReferences(t, factory(t)) })
	t.Run("MemoryCreateDerivesPlace", func(t *testing.T) { testMemoryCreateDerivesPlace(t, factory(t)) })
	t.Run("SetPeopleReplacesSet", func(t *testing.T) { testSetPeopleReplacesSet(t, factory(t)) })
	t.Run("SetEventDerivation", func(t *testing.T) { testSetEventDerivation(t, factory(t)) })
	t.Run("SetEventKeepsIndependentPlace", func(t *testing.T) { testSetEventKeepsIndependentPlace(t, factory(t)) })
	t.Run("SetPlaceConflict", func(t *testing.T) { testSetPlaceConflict(t, factory(t)) })
	t.Run("EventUpdateRederives", func(t *testing.T) { testEventUpdateRederives(t, factory(t)) })
	t.Run("EventDeleteDetaches", func(t *testing.T) { testEventDeleteDetaches(t, factory(t)) })
	t.Run("ReflectionLifecycle", func(t *testing.T) { testReflectionLifecycle(t, factory(t)) })
	t.Run("AttributeIdempotentCreate", func(t *testing.T) { testAttributeIdempotentCreate(t, factory(t)) })
	t.Run("AttributeScopeFilter", func(t *testing.T) { testAttributeScopeFilter(t, factory(t)) })
	t.Run("CollectionLifecycle", func(t *testing.T) { testCollectionLifecycle(t, factory(t)) })
	t.Run("OwnerScoping", func(t *testing.T) { testOwnerScoping(t, factory(t)) })
}

func seedUser(t *testing.T, s store.Store, externalID string) *model.User {
	t.Helper()
	u, err := s.Users().EnsureByExternalID(context.Background(), externalID, externalID+"@example.com")
	require.NoError(t, err)
	return u
}

func seedPerson(t *testing.T, s store.Store, ownerID, name string) *model.Person {
	t.Helper()
	p, err := s.Persons().Create(context.Background(), &model.Person{OwnerID: ownerID, Name: name})
	require.NoError(t, err)
	return p
}

func seedPlace(t *testing.T, s store.Store, ownerID, name string) *model.Place {
	t.Helper()
	p, err := s.Places().Create(context.Background(), &model.Place{
		OwnerID: ownerID, Name: name, City: "Lisbon", Country: "PT",
	})
	require.NoError(t, err)
	return p
}

func seedEvent(t *testing.T, s store.Store, ownerID, title string, placeID *string) *model.Event {
	t.Helper()
	e, err := s.Events().Create(context.Background(), &model.Event{
		OwnerID: ownerID, Title: title, Date: time.Now().UTC(), DateType: model.DateDay, PlaceID: placeID,
	})
	require.NoError(t, err)
	return e
}

func seedMemory(t *testing.T, s store.Store, ownerID, title string) *model.Memory {
	t.Helper()
	m, err := s.Memories().Create(context.Background(), &model.Memory{
		OwnerID: ownerID, Title: title, MediaType: model.MediaPhoto,
		MediaURL: "media/" + title + ".jpg", MediaName: title + ".jpg",
		Date: time.Now().UTC(), DateType: model.DateExact,
	})
	require.NoError(t, err)
	return m
}

func testUserProvisioning(t *testing.T, s store.Store) {
	ctx := context.Background()

	u1, err := s.Users().EnsureByExternalID(ctx, "auth0|alice", "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, model.PlanFree, u1.Plan)
	require.NotEmpty(t, u1.DefaultCollectionID)

	// Default collection exists and belongs to the new user.
	col, err := s.Collections().Get(ctx, u1.UserID, u1.DefaultCollectionID)
	require.NoError(t, err)
	require.Equal(t, "All Memories", col.Name)

	// Second ensure returns the same account, creates nothing.
	u2, err := s.Users().EnsureByExternalID(ctx, "auth0|alice", "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u1.UserID, u2.UserID)
	cols, err := s.Collections().List(ctx, u1.UserID)
	require.NoError(t, err)
	require.Len(t, cols, 1)

	require.NoError(t, s.Users().SetPlan(ctx, u1.UserID, model.PlanPaid, 0))
	got, err := s.Users().Get(ctx, u1.UserID)
	require.NoError(t, err)
	require.Equal(t, model.PlanPaid, got.Plan)

	_, err = s.Users().Get(ctx, "missing")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func testBillingEventDedupe(t *testing.T, s store.Store) {
	ctx := context.Background()
	first, err := s.Users().RecordBillingEvent(ctx, "evt_123")
	require.NoError(t, err)
	require.True(t, first)

	again, err := s.Users().RecordBillingEvent(ctx, "evt_123")
	require.NoError(t, err)
	require.False(t, again)
}

func testPersonLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-person")

	p := seedPerson(t, s, u.UserID, "Maria")
	require.NotEmpty(t, p.PersonID)

	email := "maria@example.com"
	upd, err := s.Persons().Update(ctx, u.UserID, p.PersonID, model.PersonUpdate{
		Email: model.Set(email),
	})
	require.NoError(t, err)
	require.NotNil(t, upd.Email)
	require.Equal(t, email, *upd.Email)

	// Clearing via a null field removes the value.
	upd, err = s.Persons().Update(ctx, u.UserID, p.PersonID, model.PersonUpdate{
		Email: model.Clear[string](),
	})
	require.NoError(t, err)
	require.Nil(t, upd.Email)

	found, err := s.Persons().Search(ctx, u.UserID, "mar")
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, s.Persons().Delete(ctx, u.UserID, p.PersonID))
	_, err = s.Persons().Get(ctx, u.UserID, p.PersonID)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.ErrorIs(t, s.Persons().Delete(ctx, u.UserID, p.PersonID), model.ErrNotFound)
}

func testPersonDeleteCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-cascade")

	gone := seedPerson(t, s, u.UserID, "Gone")
	spouse := seedPerson(t, s, u.UserID, "Spouse")
	parent := seedPerson(t, s, u.UserID, "Parent")

	_, err := s.Persons().Update(ctx, u.UserID, spouse.PersonID, model.PersonUpdate{
		SpouseID: model.Set(gone.PersonID),
	})
	require.NoError(t, err)
	_, err = s.Persons().Update(ctx, u.UserID, parent.PersonID, model.PersonUpdate{
		ChildrenIDs: model.Set([]string{gone.PersonID, spouse.PersonID}),
	})
	require.NoError(t, err)

	mem := seedMemory(t, s, u.UserID, "picnic")
	_, err = s.Memories().SetPeople(ctx, u.UserID, mem.MemoryID, []string{gone.PersonID, spouse.PersonID})
	require.NoError(t, err)

	require.NoError(t, s.Persons().Delete(ctx, u.UserID, gone.PersonID))

	gotSpouse, err := s.Persons().Get(ctx, u.UserID, spouse.PersonID)
	require.NoError(t, err)
	require.Nil(t, gotSpouse.SpouseID)

	gotParent, err := s.Persons().Get(ctx, u.UserID, parent.PersonID)
	require.NoError(t, err)
	require.Equal(t, []string{spouse.PersonID}, gotParent.ChildrenIDs)

	gotMem, err := s.Memories().Get(ctx, u.UserID, mem.MemoryID)
	require.NoError(t, err)
	require.Equal(t, []string{spouse.PersonID}, gotMem.PeopleIDs)
}

func testPlaceDeleteClearsReferences(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-place-del")

	pl := seedPlace(t, s, u.UserID, "Beach")
	ev := seedEvent(t, s, u.UserID, "Party", &pl.PlaceID)
	mem := seedMemory(t, s, u.UserID, "sunset")
	_, err := s.Memories().SetPlace(ctx, u.UserID, mem.MemoryID, &pl.PlaceID)
	require.NoError(t, err)

	require.NoError(t, s.Places().Delete(ctx, u.UserID, pl.PlaceID))

	gotEv, err := s.Events().Get(ctx, u.UserID, ev.EventID)
	require.NoError(t, err)
	require.Nil(t, gotEv.PlaceID)

	gotMem, err := s.Memories().Get(ctx, u.UserID, mem.MemoryID)
	require.NoError(t, err)
	require.Nil(t, gotMem.PlaceID)
}

func testMemoryCreateDerivesPlace(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-derive")

	pl := seedPlace(t, s, u.UserID, "Hall")
	ev := seedEvent(t, s, u.UserID, "Wedding", &pl.PlaceID)

	m, err := s.Memories().Create(ctx, &model.Memory{
		OwnerID: u.UserID, Title: "first dance", MediaType: model.MediaPhoto,
		MediaURL: "media/dance.jpg", MediaName: "dance.jpg",
		Date: time.Now().UTC(), DateType: model.DateDay,
		EventID: &ev.EventID,
	})
	require.NoError(t, err)
	require.NotNil(t, m.PlaceID)
	require.Equal(t, pl.PlaceID, *m.PlaceID)

	// Unknown event fails the create.
	missing := "nope"
	_, err = s.Memories().Create(ctx, &model.Memory{
		OwnerID: u.UserID, Title: "x", MediaType: model.MediaPhoto,
		MediaURL: "media/x.jpg", MediaName: "x.jpg",
		Date: time.Now().UTC(), DateType: model.DateDay,
		EventID: &missing,
	})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func testSetPeopleReplacesSet(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-people")

	a := seedPerson(t, s, u.UserID, "A")
	b := seedPerson(t, s, u.UserID, "B")
	mem := seedMemory(t, s, u.UserID, "group")

	got, err := s.Memories().SetPeople(ctx, u.UserID, mem.MemoryID, []string{a.PersonID, b.PersonID, a.PersonID})
	require.NoError(t, err)
	require.Len(t, got.PeopleIDs, 2)

	// Replaying the same set is a no-op, not an error.
	got, err = s.Memories().SetPeople(ctx, u.UserID, mem.MemoryID, []string{a.PersonID, b.PersonID})
	require.NoError(t, err)
	require.Len(t, got.PeopleIDs, 2)

	got, err = s.Memories().SetPeople(ctx, u.UserID, mem.MemoryID, []string{b.PersonID})
	require.NoError(t, err)
	require.Equal(t, []string{b.PersonID}, got.PeopleIDs)

	_, err = s.Memories().SetPeople(ctx, u.UserID, mem.MemoryID, []string{"missing"})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func testSetEventDerivation(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-setevent")

	pl := seedPlace(t, s, u.UserID, "Garden")
	ev := seedEvent(t, s, u.UserID, "Birthday", &pl.PlaceID)
	mem := seedMemory(t, s, u.UserID, "cake")

	got, err := s.Memories().SetEvent(ctx, u.UserID, mem.MemoryID, &ev.EventID)
	require.NoError(t, err)
	require.NotNil(t, got.PlaceID)
	require.Equal(t, pl.PlaceID, *got.PlaceID)

	// Detaching clears the derived place along with the event.
	got, err = s.Memories().SetEvent(ctx, u.UserID, mem.MemoryID, nil)
	require.NoError(t, err)
	require.Nil(t, got.EventID)
	require.Nil(t, got.PlaceID)
}

func testSetEventKeepsIndependentPlace(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-independent")

	pl := seedPlace(t, s, u.UserID, "Cafe")
	evNoPlace := seedEvent(t, s, u.UserID, "Meetup", nil)
	mem := seedMemory(t, s, u.UserID, "coffee")

	_, err := s.Memories().SetPlace(ctx, u.UserID, mem.MemoryID, &pl.PlaceID)
	require.NoError(t, err)

	// A placeless event does not disturb the user-chosen place.
	got, err := s.Memories().SetEvent(ctx, u.UserID, mem.MemoryID, &evNoPlace.EventID)
	require.NoError(t, err)
	require.NotNil(t, got.PlaceID)
	require.Equal(t, pl.PlaceID, *got.PlaceID)

	// Detaching it keeps the place too: it was never derived.
	got, err = s.Memories().SetEvent(ctx, u.UserID, mem.MemoryID, nil)
	require.NoError(t, err)
	require.Nil(t, got.EventID)
	require.NotNil(t, got.PlaceID)
	require.Equal(t, pl.PlaceID, *got.PlaceID)
}

func testSetPlaceConflict(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-conflict")

	pl := seedPlace(t, s, u.UserID, "Stadium")
	other := seedPlace(t, s, u.UserID, "Bar")
	ev := seedEvent(t, s, u.UserID, "Final", &pl.PlaceID)
	mem := seedMemory(t, s, u.UserID, "goal")

	_, err := s.Memories().SetEvent(ctx, u.UserID, mem.MemoryID, &ev.EventID)
	require.NoError(t, err)

	// The derived place is locked while the event holds one.
	_, err = s.Memories().SetPlace(ctx, u.UserID, mem.MemoryID, &other.PlaceID)
	require.ErrorIs(t, err, model.ErrConflict)
	_, err = s.Memories().SetPlace(ctx, u.UserID, mem.MemoryID, nil)
	require.ErrorIs(t, err, model.ErrConflict)

	// Restating the derived place is accepted.
	got, err := s.Memories().SetPlace(ctx, u.UserID, mem.MemoryID, &pl.PlaceID)
	require.NoError(t, err)
	require.Equal(t, pl.PlaceID, *got.PlaceID)

	// After detaching, the place is free again.
	_, err = s.Memories().SetEvent(ctx, u.UserID, mem.MemoryID, nil)
	require.NoError(t, err)
	got, err = s.Memories().SetPlace(ctx, u.UserID, mem.MemoryID, &other.PlaceID)
	require.NoError(t, err)
	require.Equal(t, other.PlaceID, *got.PlaceID)
}

func testEventUpdateRederives(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-rederive")

	pl1 := seedPlace(t, s, u.UserID, "Old Hall")
	pl2 := seedPlace(t, s, u.UserID, "New Hall")
	ev := seedEvent(t, s, u.UserID, "Recital", &pl1.PlaceID)
	mem := seedMemory(t, s, u.UserID, "encore")
	_, err := s.Memories().SetEvent(ctx, u.UserID, mem.MemoryID, &ev.EventID)
	require.NoError(t, err)

	// Moving the event moves attached memories with it.
	_, err = s.Events().Update(ctx, u.UserID, ev.EventID, model.EventUpdate{
		PlaceID: model.Set(pl2.PlaceID),
	})
	require.NoError(t, err)
	got, err := s.Memories().Get(ctx, u.UserID, mem.MemoryID)
	require.NoError(t, err)
	require.Equal(t, pl2.PlaceID, *got.PlaceID)

	// Clearing the event's place clears the derived place.
	_, err = s.Events().Update(ctx, u.UserID, ev.EventID, model.EventUpdate{
		PlaceID: model.Clear[string](),
	})
	require.NoError(t, err)
	got, err = s.Memories().Get(ctx, u.UserID, mem.MemoryID)
	require.NoError(t, err)
	require.Nil(t, got.PlaceID)
}

func testEventDeleteDetaches(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-evdel")

	pl := seedPlace(t, s, u.UserID, "Pier")
	ev := seedEvent(t, s, u.UserID, "Regatta", &pl.PlaceID)
	mem := seedMemory(t, s, u.UserID, "sail")
	_, err := s.Memories().SetEvent(ctx, u.UserID, mem.MemoryID, &ev.EventID)
	require.NoError(t, err)

	require.NoError(t, s.Events().Delete(ctx, u.UserID, ev.EventID))

	got, err := s.Memories().Get(ctx, u.UserID, mem.MemoryID)
	require.NoError(t, err)
	require.Nil(t, got.EventID)
	require.Nil(t, got.PlaceID)
}

func testReflectionLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-reflect")
	mem := seedMemory(t, s, u.UserID, "journal")

	r, err := s.Reflections().Create(ctx, &model.Reflection{
		OwnerID: u.UserID, MemoryID: mem.MemoryID, Title: "day one", Content: "it rained",
	})
	require.NoError(t, err)

	upd, err := s.Reflections().Update(ctx, u.UserID, mem.MemoryID, r.ReflectionID, model.ReflectionUpdate{
		Content: model.Set("it poured"),
	})
	require.NoError(t, err)
	require.Equal(t, "it poured", upd.Content)

	list, err := s.Reflections().ListByMemory(ctx, u.UserID, mem.MemoryID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.Reflections().Delete(ctx, u.UserID, mem.MemoryID, r.ReflectionID))
	_, err = s.Reflections().Get(ctx, u.UserID, mem.MemoryID, r.ReflectionID)
	require.ErrorIs(t, err, model.ErrNotFound)

	// A reflection on an unknown memory is rejected.
	_, err = s.Reflections().Create(ctx, &model.Reflection{
		OwnerID: u.UserID, MemoryID: "missing", Title: "x", Content: "y",
	})
	require.ErrorIs(t, err, model.ErrNotFound)

	// Deleting the memory removes its reflections.
	r2, err := s.Reflections().Create(ctx, &model.Reflection{
		OwnerID: u.UserID, MemoryID: mem.MemoryID, Title: "day two", Content: "sun",
	})
	require.NoError(t, err)
	require.NoError(t, s.Memories().Delete(ctx, u.UserID, mem.MemoryID))
	_, err = s.Reflections().Get(ctx, u.UserID, mem.MemoryID, r2.ReflectionID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func testAttributeIdempotentCreate(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-attr")

	a1, err := s.Attributes().Create(ctx, &model.Attribute{
		OwnerID: u.UserID, Name: "Mood", EntityType: model.EntityPerson,
	})
	require.NoError(t, err)

	// Same name, different case: returns the original row.
	a2, err := s.Attributes().Create(ctx, &model.Attribute{
		OwnerID: u.UserID, Name: "  mood ", EntityType: model.EntityPerson,
	})
	require.NoError(t, err)
	require.Equal(t, a1.AttributeID, a2.AttributeID)

	// Same name under another entity type is a distinct entry.
	a3, err := s.Attributes().Create(ctx, &model.Attribute{
		OwnerID: u.UserID, Name: "Mood", EntityType: model.EntityPlace,
	})
	require.NoError(t, err)
	require.NotEqual(t, a1.AttributeID, a3.AttributeID)
}

func testAttributeScopeFilter(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-attrscope")

	_, err := s.Attributes().Create(ctx, &model.Attribute{OwnerID: u.UserID, Name: "Height", EntityType: model.EntityPerson})
	require.NoError(t, err)
	_, err = s.Attributes().Create(ctx, &model.Attribute{OwnerID: u.UserID, Name: "Season", EntityType: model.EntityEvent})
	require.NoError(t, err)
	_, err = s.Attributes().Create(ctx, &model.Attribute{OwnerID: u.UserID, Name: "Color"})
	require.NoError(t, err)

	// Type listing includes the shared "all" scope.
	list, err := s.Attributes().ListByEntityType(ctx, u.UserID, model.EntityPerson)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, a := range list {
		names = append(names, a.Name)
	}
	require.ElementsMatch(t, []string{"Height", "Color"}, names)

	found, err := s.Attributes().Search(ctx, u.UserID, model.EntityEvent, "sea")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Season", found[0].Name)
}

func testCollectionLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := seedUser(t, s, "owner-coll")
	mem := seedMemory(t, s, u.UserID, "trip")

	c, err := s.Collections().Create(ctx, &model.Collection{
		OwnerID: u.UserID, Name: "Summer 2025",
	})
	require.NoError(t, err)

	upd, err := s.Collections().Update(ctx, u.UserID, c.CollectionID, model.CollectionUpdate{
		MemoryIDs: model.Set([]string{mem.MemoryID, mem.MemoryID}),
	})
	require.NoError(t, err)
	require.Equal(t, []string{mem.MemoryID}, upd.MemoryIDs)

	upd, err = s.Collections().Update(ctx, u.UserID, c.CollectionID, model.CollectionUpdate{
		MemoryIDs: model.Clear[[]string](),
	})
	require.NoError(t, err)
	require.Empty(t, upd.MemoryIDs)

	require.NoError(t, s.Collections().Delete(ctx, u.UserID, c.CollectionID))
	_, err = s.Collections().Get(ctx, u.UserID, c.CollectionID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func testOwnerScoping(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := seedUser(t, s, "scope-alice")
	bob := seedUser(t, s, "scope-bob")

	mem := seedMemory(t, s, alice.UserID, "private")
	p := seedPerson(t, s, alice.UserID, "Friend")

	_, err := s.Memories().Get(ctx, bob.UserID, mem.MemoryID)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.Persons().Get(ctx, bob.UserID, p.PersonID)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.ErrorIs(t, s.Memories().Delete(ctx, bob.UserID, mem.MemoryID), model.ErrNotFound)

	list, err := s.Memories().List(ctx, bob.UserID)
	require.NoError(t, err)
	require.Empty(t, list)

	// Cross-owner attachment attempts surface not-found, never leak.
	_, err = s.Memories().SetPeople(ctx, bob.UserID, mem.MemoryID, []string{p.PersonID})
	require.ErrorIs(t, err, model.ErrNotFound)
}
