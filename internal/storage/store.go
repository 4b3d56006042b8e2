// Package storage provides storage abstractions for minikv.
//
// This file defines the Store interface the command interpreter and the
// transport program against, so the core table stays free of any wire or
// locking concerns.
package storage

// Stats is a point-in-time snapshot of store statistics. The JSON shape
// is part of the wire protocol: the STATS command returns it verbatim.
type Stats struct {
	// Keys is the number of live entries.
	Keys int `json:"keys"`

	// MemoryBytes is the accounted memory footprint of the store.
	MemoryBytes uint64 `json:"memory_bytes"`
}

// Store is the contract between the storage engine and its callers.
//
// Implementation requirements:
//   - Set rejects oversized keys/values without mutating state.
//   - Get and Delete treat absent keys as negative results, not errors.
//   - Stats is a pure O(1) read.
//   - Keys enumerates in bucket-index order, newest first within a bucket.
type Store interface {
	// Set inserts or updates a key.
	Set(key, value []byte) error

	// Get returns the value for key, or false if absent. The returned
	// slice is owned by the caller.
	Get(key []byte) ([]byte, bool)

	// Delete removes a key and reports whether it was present.
	Delete(key []byte) bool

	// Stats returns current entry count and memory usage.
	Stats() Stats

	// Keys returns every stored key.
	Keys() []string
}
