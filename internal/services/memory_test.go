package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake/server/internal/mediastore/local"
	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store/memstore"
)

func seedOwner(t *testing.T, st *memstore.Memstore) string {
	t.Helper()
	u, err := st.Users().EnsureByExternalID(context.Background(), "svc-owner", "svc@example.com")
	require.NoError(t, err)
	return u.UserID
}

func TestCreateMemoryValidation(t *testing.T) {
	st := memstore.New()
	svc := NewMemoryService(st, nil)
	owner := seedOwner(t, st)

	_, err := svc.CreateMemory(context.Background(), &model.Memory{
		OwnerID: owner, MediaType: model.MediaPhoto, MediaURL: "k.jpg",
	})
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.CreateMemory(context.Background(), &model.Memory{
		OwnerID: owner, Title: "no media", MediaType: model.MediaPhoto,
	})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestDeleteMemoryRemovesMedia(t *testing.T) {
	st := memstore.New()
	media, err := local.NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)
	svc := NewMemoryService(st, media)
	owner := seedOwner(t, st)
	ctx := context.Background()

	key, err := media.Save(ctx, owner, "image/jpeg", bytes.NewReader([]byte("img")))
	require.NoError(t, err)

	m, err := svc.CreateMemory(ctx, &model.Memory{
		OwnerID: owner, Title: "beach", MediaType: model.MediaPhoto,
		MediaURL: key, MediaName: "beach.jpg",
		Date: time.Now().UTC(), DateType: model.DateDay,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMemory(ctx, owner, m.MemoryID))

	_, _, err = media.Get(ctx, owner, key)
	require.Error(t, err)
	_, err = svc.GetMemory(ctx, owner, m.MemoryID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateMemoryRefusesClearedTitle(t *testing.T) {
	st := memstore.New()
	svc := NewMemoryService(st, nil)
	owner := seedOwner(t, st)
	ctx := context.Background()

	m, err := svc.CreateMemory(ctx, &model.Memory{
		OwnerID: owner, Title: "keep", MediaType: model.MediaPhoto, MediaURL: "k.jpg",
		MediaName: "k.jpg", Date: time.Now().UTC(), DateType: model.DateExact,
	})
	require.NoError(t, err)

	_, err = svc.UpdateMemory(ctx, owner, m.MemoryID, model.MemoryUpdate{
		Title: model.Clear[string](),
	})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateMemoryRefusesEmptyTitle(t *testing.T) {
	st := memstore.New()
	svc := NewMemoryService(st, nil)
	owner := seedOwner(t, st)
	ctx := context.Background()

	m, err := svc.CreateMemory(ctx, &model.Memory{
		OwnerID: owner, Title: "keep", MediaType: model.MediaPhoto, MediaURL: "k.jpg",
		MediaName: "k.jpg", Date: time.Now().UTC(), DateType: model.DateExact,
	})
	require.NoError(t, err)

	for _, title := range []string{"", "   "} {
		_, err = svc.UpdateMemory(ctx, owner, m.MemoryID, model.MemoryUpdate{
			Title: model.Set(title),
		})
		require.ErrorIs(t, err, model.ErrValidation)
	}

	// Title untouched after the rejected updates.
	got, err := svc.GetMemory(ctx, owner, m.MemoryID)
	require.NoError(t, err)
	require.Equal(t, "keep", got.Title)
}
