package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	require.NoError(t, Title("Summer trip 2025"))
	require.Error(t, Title(""))
	require.Error(t, Title(strings.Repeat("a", 201)))
}

func TestEmail(t *testing.T) {
	require.NoError(t, Email("a@b.co"))
	require.Error(t, Email(""))
	require.Error(t, Email("not-an-email"))
	require.Error(t, Email("a b@c.d"))
}

func TestDateType(t *testing.T) {
	for _, v := range []string{"exact", "day", "month", "year"} {
		require.NoError(t, DateType(v))
	}
	require.Error(t, DateType("decade"))
	require.Error(t, DateType(""))
}

func TestMediaType(t *testing.T) {
	require.NoError(t, MediaType("photo"))
	require.NoError(t, MediaType("document"))
	require.Error(t, MediaType("video"))
}

func TestEntityType(t *testing.T) {
	require.NoError(t, EntityType(""))
	require.NoError(t, EntityType("person"))
	require.Error(t, EntityType("animal"))
}

func TestMaxLen(t *testing.T) {
	long := strings.Repeat("x", 11)
	require.Error(t, MaxLen("note", &long, 10))
	require.NoError(t, MaxLen("note", nil, 10))
}
