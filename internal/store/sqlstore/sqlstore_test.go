package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
	"github.com/keepsakehq/keepsake/server/internal/store/storetest"
)

func newSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "keepsake.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := New(db, DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, s.Bootstrap(context.Background()))
	return s
}

func TestSQLiteCompliance(t *testing.T) {
	storetest.Run(t, newSQLiteStore)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "keepsake.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := New(db, DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, s.Bootstrap(context.Background()))
	require.NoError(t, s.Bootstrap(context.Background()))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(nil, "oracle")
	require.Error(t, err)
}

// JSON list columns must land as TEXT, not BLOB: the person-delete cleanup
// finds parents with `children_ids LIKE '%"<id>"%'`, and sqlite LIKE does not
// match BLOB values.
func TestJSONColumnsStoredAsText(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "keepsake.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := New(db, DriverSQLite)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Bootstrap(ctx))

	u, err := s.Users().EnsureByExternalID(ctx, "ext-1", "a@b.c")
	require.NoError(t, err)
	child, err := s.Persons().Create(ctx, &model.Person{OwnerID: u.UserID, Name: "Child"})
	require.NoError(t, err)
	parent, err := s.Persons().Create(ctx, &model.Person{
		OwnerID: u.UserID, Name: "Parent", ChildrenIDs: []string{child.PersonID},
	})
	require.NoError(t, err)

	var colType string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT typeof(children_ids) FROM persons WHERE person_id = ?`, parent.PersonID).Scan(&colType))
	require.Equal(t, "text", colType)

	// The cleanup path depends on this LIKE finding the parent row.
	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM persons WHERE children_ids LIKE ?`, `%"`+child.PersonID+`"%`).Scan(&n))
	require.Equal(t, 1, n)

	require.NoError(t, s.Persons().Delete(ctx, u.UserID, child.PersonID))
	got, err := s.Persons().Get(ctx, u.UserID, parent.PersonID)
	require.NoError(t, err)
	require.Empty(t, got.ChildrenIDs)
}

func TestPlaceholderRewrite(t *testing.T) {
	s := &SQLStore{driver: DriverSQLite}
	require.Equal(t, "SELECT ? , ?", s.q("SELECT $1 , $2"))

	s.driver = DriverPostgres
	require.Equal(t, "SELECT $1 , $2", s.q("SELECT $1 , $2"))
}
