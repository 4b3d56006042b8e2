// Package storage defines the store abstraction for MiniKV.
//
// The Store interface is the seam between the command interpreter and
// the underlying hash table. Guard is the only production
// implementation: it wraps a single hashtable.Table behind a
// sync.RWMutex so concurrent connections observe a consistent store.
//
// Statistics reported by Stats cover logical key count and the exact
// number of bytes the table accounts for its header, bucket array and
// entries.
package storage
