package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldDecodeTriState(t *testing.T) {
	var u PersonUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ada","email":null}`), &u))

	v, ok := u.Name.Value()
	require.True(t, ok)
	require.Equal(t, "Ada", v)

	require.True(t, u.Email.IsClear())
	require.True(t, u.Role.Unchanged())
}

func TestFieldEncodeOmitsUnchanged(t *testing.T) {
	u := MemoryUpdate{
		Title:       Set("Trip"),
		Description: Clear[string](),
	}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"Trip","description":null}`, string(b))
}

func TestFieldApply(t *testing.T) {
	name := "old"
	var email *string

	Set("new").Apply(&name)
	require.Equal(t, "new", name)

	Set("a@b.c").ApplyPtr(&email)
	require.NotNil(t, email)
	require.Equal(t, "a@b.c", *email)

	Clear[string]().ApplyPtr(&email)
	require.Nil(t, email)

	// Clearing a required destination leaves it alone.
	Clear[string]().Apply(&name)
	require.Equal(t, "new", name)
}
