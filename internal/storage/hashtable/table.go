package hashtable

import (
	"bytes"
	"errors"
)

// Size limits and growth parameters.
const (
	// DefaultBuckets is the initial bucket count when none is configured.
	DefaultBuckets = 64

	// MaxKeySize is the maximum accepted key length in bytes.
	MaxKeySize = 256

	// MaxValueSize is the maximum accepted value length in bytes.
	MaxValueSize = 4096

	// loadFactorThreshold triggers a doubling of the bucket array when the
	// ratio of entries to buckets strictly exceeds it.
	loadFactorThreshold = 0.75
)

// Accounting constants. Memory usage is tracked incrementally, never
// recomputed: every mutation adjusts memoryUsed by the exact delta.
const (
	// entryOverhead is the accounted fixed cost of one entry node
	// (key/value headers plus the chain link).
	entryOverhead = 48

	// headerOverhead is the accounted fixed cost of the table itself.
	headerOverhead = 32

	// slotSize is the accounted cost of one bucket slot.
	slotSize = 8
)

// Rejection errors returned by Set. The table is left untouched when
// either is returned.
var (
	ErrKeyTooLarge   = errors.New("hashtable: key exceeds maximum size")
	ErrValueTooLarge = errors.New("hashtable: value exceeds maximum size")
)

// entry is a single key/value node in a bucket chain. The chain owns the
// node and its buffers exclusively; Set copies inbound bytes.
type entry struct {
	key   []byte
	value []byte
	next  *entry
}

// size returns the accounted size of the entry.
func (e *entry) size() uint64 {
	return entryOverhead + uint64(len(e.key)) + uint64(len(e.value))
}

// Table is a resizable hash table with chained collision resolution.
type Table struct {
	buckets        []*entry
	numEntries     int
	memoryUsed     uint64
	initialBuckets int
}

// Option configures a Table.
type Option func(*tableConfig)

type tableConfig struct {
	initialBuckets int
}

// WithInitialBuckets sets the initial bucket count. Values that are not a
// positive power of two fall back to DefaultBuckets.
func WithInitialBuckets(n int) Option {
	return func(c *tableConfig) {
		c.initialBuckets = n
	}
}

// New creates an empty table. Memory usage starts at the fixed table
// overhead plus one slot per bucket.
func New(opts ...Option) *Table {
	cfg := tableConfig{initialBuckets: DefaultBuckets}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := cfg.initialBuckets
	if n <= 0 || n&(n-1) != 0 {
		n = DefaultBuckets
	}

	return &Table{
		buckets:        make([]*entry, n),
		memoryUsed:     headerOverhead + uint64(n)*slotSize,
		initialBuckets: n,
	}
}

// Hash is the DJB2 hash over the key bytes. The exact function is part of
// the on-wire compatibility surface: bucket placement, and therefore
// resize timing and KEYS enumeration order, depend on it.
func Hash(key []byte) uint64 {
	h := uint64(5381)
	for _, b := range key {
		h = h*33 + uint64(b)
	}
	return h
}

func (t *Table) bucketIndex(key []byte) uint64 {
	// Bucket count is always a power of two.
	return Hash(key) & uint64(len(t.buckets)-1)
}

// Set inserts or updates a key. Oversized keys or values are rejected
// without mutating the table. An update replaces the value bytes in place
// in the chain; an insert links a new entry at the head of its bucket.
func (t *Table) Set(key, value []byte) error {
	if len(key) > MaxKeySize {
		return ErrKeyTooLarge
	}
	if len(value) > MaxValueSize {
		return ErrValueTooLarge
	}

	if float64(t.numEntries)/float64(len(t.buckets)) > loadFactorThreshold {
		t.grow()
	}

	idx := t.bucketIndex(key)
	for e := t.buckets[idx]; e != nil; e = e.next {
		if bytes.Equal(e.key, key) {
			oldSize := e.size()
			e.value = append([]byte(nil), value...)
			t.memoryUsed -= oldSize
			t.memoryUsed += e.size()
			return nil
		}
	}

	e := &entry{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
		next:  t.buckets[idx],
	}
	t.buckets[idx] = e
	t.numEntries++
	t.memoryUsed += e.size()
	return nil
}

// grow doubles the bucket array and relinks every entry into its new
// bucket. Entries move; key and value buffers are never reallocated.
func (t *Table) grow() {
	oldBuckets := t.buckets
	newBuckets := make([]*entry, len(oldBuckets)*2)
	mask := uint64(len(newBuckets) - 1)

	for _, e := range oldBuckets {
		for e != nil {
			next := e.next
			idx := Hash(e.key) & mask
			e.next = newBuckets[idx]
			newBuckets[idx] = e
			e = next
		}
	}

	t.memoryUsed -= uint64(len(oldBuckets)) * slotSize
	t.memoryUsed += uint64(len(newBuckets)) * slotSize
	t.buckets = newBuckets
}

// Get returns the stored value for key. The returned slice aliases the
// table's buffer and is only valid until the next mutating call; callers
// that retain it must copy.
func (t *Table) Get(key []byte) ([]byte, bool) {
	for e := t.buckets[t.bucketIndex(key)]; e != nil; e = e.next {
		if bytes.Equal(e.key, key) {
			return e.value, true
		}
	}
	return nil, false
}

// Delete unlinks the entry for key. It reports whether the key was
// present; deleting an absent key is not an error.
func (t *Table) Delete(key []byte) bool {
	idx := t.bucketIndex(key)

	var prev *entry
	for e := t.buckets[idx]; e != nil; e = e.next {
		if bytes.Equal(e.key, key) {
			if prev != nil {
				prev.next = e.next
			} else {
				t.buckets[idx] = e.next
			}
			t.memoryUsed -= e.size()
			t.numEntries--
			return true
		}
		prev = e
	}
	return false
}

// Stats returns the live entry count and the accounted memory footprint.
func (t *Table) Stats() (entries int, memoryBytes uint64) {
	return t.numEntries, t.memoryUsed
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.numEntries
}

// NumBuckets returns the current bucket count.
func (t *Table) NumBuckets() int {
	return len(t.buckets)
}

// Keys returns every key in bucket-index order, most recently inserted
// first within each bucket. The returned strings are copies.
func (t *Table) Keys() []string {
	keys := make([]string, 0, t.numEntries)
	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			keys = append(keys, string(e.key))
		}
	}
	return keys
}

// Scan iterates over all entries in enumeration order. The callback
// returns false to stop. Key and value slices alias table buffers.
func (t *Table) Scan(fn func(key, value []byte) bool) {
	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

// Reset drops every entry and restores the table to the state New left
// it in, releasing every chain for collection.
func (t *Table) Reset() {
	n := t.initialBuckets
	t.buckets = make([]*entry, n)
	t.numEntries = 0
	t.memoryUsed = headerOverhead + uint64(n)*slotSize
}
