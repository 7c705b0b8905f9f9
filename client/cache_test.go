package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheSetGetInvalidate(t *testing.T) {
	c := NewCache()

	_, ok := c.Get("memory:1")
	require.False(t, ok)

	c.Set("memory:1", "v1")
	v, ok := c.Get("memory:1")
	require.True(t, ok)
	require.Equal(t, "v1", v)

	c.Invalidate("memory:1")
	_, ok = c.Get("memory:1")
	require.False(t, ok)
}

func TestCacheRollbackRestoresPriorValue(t *testing.T) {
	c := NewCache()
	c.Set("memory:1", "server")
	c.Commit("memory:1")

	// Optimistic guess, then the mutation fails.
	c.Set("memory:1", "guess")
	c.Rollback("memory:1")

	v, ok := c.Get("memory:1")
	require.True(t, ok)
	require.Equal(t, "server", v)
}

func TestCacheRollbackRemovesFreshEntry(t *testing.T) {
	c := NewCache()

	// Key was never cached before the guess; rollback must erase it.
	c.Set("memory:2", "guess")
	c.Rollback("memory:2")

	_, ok := c.Get("memory:2")
	require.False(t, ok)
}

func TestCacheJournalSpansMultipleSets(t *testing.T) {
	c := NewCache()
	c.Set("memory:1", "server")
	c.Commit("memory:1")

	// Two optimistic writes before the failure; rollback skips back past both.
	c.Set("memory:1", "guess-a")
	c.Set("memory:1", "guess-b")
	c.Rollback("memory:1")

	v, _ := c.Get("memory:1")
	require.Equal(t, "server", v)
}

func TestCacheCommitAcceptsServerTruth(t *testing.T) {
	c := NewCache()
	c.Set("memory:1", "server")
	c.Commit("memory:1")

	c.Set("memory:1", "guess")
	c.Set("memory:1", "reconciled")
	c.Commit("memory:1")

	// Rollback after commit has nothing to undo.
	c.Rollback("memory:1")
	v, _ := c.Get("memory:1")
	require.Equal(t, "reconciled", v)
}
