package client

import "sync"

// Cache is an explicit client-side store for optimistic updates. The server
// stays the sole source of truth; entries here are a derived view that the
// caller invalidates or reconciles explicitly.
//
// The intended flow per mutation:
//
//	cache.Set(key, guess)       // optimistic local apply
//	out, err := client.Update(...)
//	if err != nil {
//	        cache.Rollback(key) // restore the pre-guess state
//	} else {
//	        cache.Set(key, out) // server truth
//	        cache.Commit(key)
//	}
//
// Set records the pre-existing state the first time a key changes after a
// Commit or Rollback, so a failed mutation restores exactly what was cached
// before the guess, including "not cached at all".
type Cache struct {
	mu      sync.Mutex
	entries map[string]any
	journal map[string]journalEntry
}

type journalEntry struct {
	value   any
	existed bool
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]any),
		journal: make(map[string]journalEntry),
	}
}

// Get returns the cached value for key, if any.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores value under key, journaling the prior state if this is the
// first write since the key was last committed or rolled back.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, journaled := c.journal[key]; !journaled {
		prev, existed := c.entries[key]
		c.journal[key] = journalEntry{value: prev, existed: existed}
	}
	c.entries[key] = value
}

// Commit accepts the current value for key as reconciled server truth and
// drops its journal entry.
func (c *Cache) Commit(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.journal, key)
}

// Rollback restores the state recorded before the first uncommitted Set on
// key. A no-op when nothing is journaled.
func (c *Cache) Rollback(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.journal[key]
	if !ok {
		return
	}
	if entry.existed {
		c.entries[key] = entry.value
	} else {
		delete(c.entries, key)
	}
	delete(c.journal, key)
}

// Invalidate drops key entirely so the next read goes to the server.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	delete(c.journal, key)
}
