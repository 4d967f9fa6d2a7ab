// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines abstract pooling APIs: fixed-type object allocators and their statistics.

package api

// Allocator hands out and reclaims objects of a single fixed type.
//
// Allocate never fails observably: when no pooled object is available an
// implementation constructs a fresh one. Deallocate ignores a nil handle.
type Allocator[T any] interface {
	// Allocate returns an object for exclusive use by the caller.
	Allocate() *T

	// Deallocate returns an object previously obtained from Allocate.
	Deallocate(obj *T)
}

// StatsReporter is implemented by allocators that expose counters.
type StatsReporter interface {
	Stats() PoolStats
}

// WarningLimiter decides whether a diagnostic may be emitted.
// Implementations must be safe for concurrent use.
type WarningLimiter interface {
	Allow() bool
}

// PoolStats is a point-in-time snapshot of allocator counters.
// Under concurrent use the fields are individually accurate but not mutually consistent.
type PoolStats struct {
	Capacity    int   // initial population
	Available   int64 // objects currently held by the pool
	Hits        int64 // Allocate calls served from the pool
	Fallbacks   int64 // Allocate calls served by fresh construction
	Returns     int64 // non-nil Deallocate calls
	Dropped     int64 // returned objects released instead of pooled
	Outstanding int64 // handles currently checked out
	Nodes       int64 // free-list nodes ever created (lock-free pool only)
}
