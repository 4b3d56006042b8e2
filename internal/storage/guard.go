package storage

import (
	"sync"

	"github.com/minikv/minikv-go/internal/storage/hashtable"
)

// Guard serializes access to a hashtable.Table behind a single RWMutex.
//
// The table itself is not safe for concurrent use; the invariants it
// maintains (exact entry count, exact memory accounting, key uniqueness)
// do not survive unsynchronized mutation. One connection-serving
// goroutine per client plus this guard gives the same observable
// behavior as a strictly sequential server.
type Guard struct {
	mu  sync.RWMutex
	tbl *hashtable.Table
}

// NewGuard wraps a table. The caller must not touch the table directly
// afterwards.
func NewGuard(tbl *hashtable.Table) *Guard {
	return &Guard{tbl: tbl}
}

// Set inserts or updates a key.
func (g *Guard) Set(key, value []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tbl.Set(key, value)
}

// Get returns a copy of the value for key. Copying under the lock keeps
// the table's buffers private to the bucket chains.
func (g *Guard) Get(key []byte) ([]byte, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.tbl.Get(key)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

// Delete removes a key and reports whether it was present.
func (g *Guard) Delete(key []byte) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tbl.Delete(key)
}

// Stats returns current entry count and memory usage.
func (g *Guard) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	entries, mem := g.tbl.Stats()
	return Stats{Keys: entries, MemoryBytes: mem}
}

// Keys returns every stored key in enumeration order.
func (g *Guard) Keys() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tbl.Keys()
}

// Reset drops all entries. Exposed for administrative shutdown paths and
// tests; regular commands never call it.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tbl.Reset()
}

var _ Store = (*Guard)(nil)
