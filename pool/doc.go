// Package pool
// Author: momentics <momentics@gmail.com>
//
// Fixed-type object pools for high-frequency allocate/free workloads.
//
// LockFree is the production pool: a tagged-index Treiber stack over a growable
// node arena, with heap fallback on exhaustion and a throttled warning.
// VectorPool, QueuePool, MutexPool, RingPool, SyncPool and HeapAllocator are
// comparison strategies sharing the api.Allocator contract.
// LocalSet hands each worker a private LockFree pool.
package pool
