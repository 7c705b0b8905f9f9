package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/keepsakehq/keepsake/server/internal/store"
	"github.com/keepsakehq/keepsake/server/internal/store/storetest"
)

func TestMemstoreCompliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return New()
	})
}

// Reads for owners that have no bucket yet must not mutate the shared maps;
// they run under the read lock, so a lazily inserted bucket would be a
// concurrent map write under the race detector.
func TestConcurrentReadsForNewOwners(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		owner := fmt.Sprintf("owner-%d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Persons().Get(ctx, owner, "nope")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Memories().List(ctx, owner)
		}()
	}
	wg.Wait()
}
