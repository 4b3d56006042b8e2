// Package hashtable implements the chained hash table that backs minikv.
//
// The table uses DJB2 hashing with singly linked bucket chains, doubles
// its bucket count when the load factor crosses 0.75, and maintains an
// exact incremental account of the memory it holds. It is not safe for
// concurrent use; callers serialize access (see package storage).
package hashtable
