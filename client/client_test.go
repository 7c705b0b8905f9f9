package client

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake/server/internal/api"
	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/mediastore/local"
	"github.com/keepsakehq/keepsake/server/internal/store/memstore"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	media, err := local.NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)

	router := api.NewRouter(api.Deps{
		Store:      memstore.New(),
		Media:      media,
		Authorizer: auth.NewDevAuthorizer(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return NewWithDevMode(srv.URL)
}

func TestSyncAndMe(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	u, err := c.SyncUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "keepsake-dev", u.ExternalID)
	require.NotEmpty(t, u.DefaultCollectionID)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, u.UserID, me.UserID)
}

func TestPersonLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	email := "ada@example.com"
	p, err := c.CreatePerson(ctx, CreatePersonRequest{Name: "Ada", Email: &email})
	require.NoError(t, err)
	require.NotEmpty(t, p.PersonID)

	got, err := c.GetPerson(ctx, p.PersonID)
	require.NoError(t, err)
	require.Equal(t, "Ada", got.Name)

	// Clear the email, set a role.
	got, err = c.UpdatePerson(ctx, p.PersonID, Fields().Set("role", "mathematician").Clear("email"))
	require.NoError(t, err)
	require.Nil(t, got.Email)
	require.NotNil(t, got.Role)
	require.Equal(t, "mathematician", *got.Role)

	found, err := c.SearchPersons(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, c.DeletePerson(ctx, p.PersonID))
	_, err = c.GetPerson(ctx, p.PersonID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryAssociations(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	venue, err := c.CreatePlace(ctx, CreatePlaceRequest{Name: "Town Hall", City: "Leiden", Country: "NL"})
	require.NoError(t, err)
	ev, err := c.CreateEvent(ctx, CreateEventRequest{
		Title:    "Graduation",
		Date:     time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC),
		DateType: "day",
		PlaceID:  &venue.PlaceID,
	})
	require.NoError(t, err)

	m, err := c.CreateMemory(ctx, CreateMemoryRequest{
		Title:     "Diploma photo",
		MediaType: "photo",
		MediaURL:  "k/diploma.jpg",
		MediaName: "diploma.jpg",
		Date:      time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC),
		DateType:  "day",
		EventID:   &ev.EventID,
	})
	require.NoError(t, err)
	require.NotNil(t, m.PlaceID)
	require.Equal(t, venue.PlaceID, *m.PlaceID)

	// Place is locked by the event.
	other, err := c.CreatePlace(ctx, CreatePlaceRequest{Name: "Cafe", City: "Leiden", Country: "NL"})
	require.NoError(t, err)
	_, err = c.SetMemoryPlace(ctx, m.MemoryID, &other.PlaceID)
	require.ErrorIs(t, err, ErrConflict)

	// Detaching clears the derived place, then the place is free again.
	m, err = c.SetMemoryEvent(ctx, m.MemoryID, nil)
	require.NoError(t, err)
	require.Nil(t, m.EventID)
	require.Nil(t, m.PlaceID)

	m, err = c.SetMemoryPlace(ctx, m.MemoryID, &other.PlaceID)
	require.NoError(t, err)
	require.Equal(t, other.PlaceID, *m.PlaceID)

	person, err := c.CreatePerson(ctx, CreatePersonRequest{Name: "Ada"})
	require.NoError(t, err)
	m, err = c.SetMemoryPeople(ctx, m.MemoryID, []string{person.PersonID})
	require.NoError(t, err)
	require.Equal(t, []string{person.PersonID}, m.PeopleIDs)
}

func TestReflectionsAndAttributes(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	m, err := c.CreateMemory(ctx, CreateMemoryRequest{
		Title: "Old letter", MediaType: "document", MediaURL: "k/letter.pdf",
		MediaName: "letter.pdf", Date: time.Now().UTC(), DateType: "year",
	})
	require.NoError(t, err)

	refl, err := c.CreateReflection(ctx, m.MemoryID, "First read", "Found this in the attic.")
	require.NoError(t, err)

	refl, err = c.UpdateReflection(ctx, m.MemoryID, refl.ReflectionID, Fields().Set("content", "Re-read it; still moving."))
	require.NoError(t, err)
	require.Equal(t, "Re-read it; still moving.", refl.Content)

	list, err := c.ListReflections(ctx, m.MemoryID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	a1, err := c.CreateAttribute(ctx, "Mood", nil, "all")
	require.NoError(t, err)
	a2, err := c.CreateAttribute(ctx, "mood", nil, "all")
	require.NoError(t, err)
	require.Equal(t, a1.AttributeID, a2.AttributeID)

	attrs, err := c.SearchAttributes(ctx, "person", "moo")
	require.NoError(t, err)
	require.Len(t, attrs, 1)
}

func TestMediaRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	up, err := c.UploadMedia(ctx, "note.txt", "text/plain", strings.NewReader("hello keepsake"))
	require.NoError(t, err)
	require.NotEmpty(t, up.MediaURL)
	require.Equal(t, "note.txt", up.MediaName)

	rc, mime, err := c.DownloadMedia(ctx, up.MediaURL)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	require.Equal(t, "text/plain", mime)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "hello keepsake", string(data))
}

func TestValidationAndNotFoundMapping(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.CreatePerson(ctx, CreatePersonRequest{Name: ""})
	require.ErrorIs(t, err, ErrValidation)

	var apiErr *APIError
	_, err = c.GetMemory(ctx, "missing-id")
	require.ErrorIs(t, err, ErrNotFound)
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 404, apiErr.Status)
}

func TestOptimisticUpdateReconcile(t *testing.T) {
	c := newTestClient(t)
	cache := NewCache()
	ctx := context.Background()

	m, err := c.CreateMemory(ctx, CreateMemoryRequest{
		Title: "Beach day", MediaType: "photo", MediaURL: "k/beach.jpg",
		MediaName: "beach.jpg", Date: time.Now().UTC(), DateType: "day",
	})
	require.NoError(t, err)
	key := "memory:" + m.MemoryID
	cache.Set(key, m)
	cache.Commit(key)

	// Successful mutation: guess, then reconcile with server truth.
	guess := *m
	guess.Title = "Beach day 2021"
	cache.Set(key, &guess)
	out, err := c.UpdateMemory(ctx, m.MemoryID, Fields().Set("title", "Beach day 2021"))
	require.NoError(t, err)
	cache.Set(key, out)
	cache.Commit(key)

	// Failed mutation: clearing the title is rejected, cache rolls back.
	bad := *out
	bad.Title = ""
	cache.Set(key, &bad)
	_, err = c.UpdateMemory(ctx, m.MemoryID, Fields().Clear("title"))
	require.ErrorIs(t, err, ErrValidation)
	cache.Rollback(key)

	cached, ok := cache.Get(key)
	require.True(t, ok)
	require.Equal(t, "Beach day 2021", cached.(*Memory).Title)
}
