// Package store implements the live ratings record store.
//
// The store is the single mutable shared resource in the process. Reads
// return deep-copied snapshots so concurrent readers never block or observe
// partially-merged state; merges serialize through one critical section
// because history appends and the version counter are not independently
// atomic. Records are never deleted: the dataset is a closed universe of
// codes for the process lifetime.
package store
