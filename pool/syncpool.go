// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-mempool/api"
)

// SyncPool adapts sync.Pool to the Allocator contract. The runtime may
// discard idle objects at any GC, so it has no fixed population.
type SyncPool[T any] struct {
	pool *sync.Pool

	allocs    atomic.Int64
	fallbacks atomic.Int64
	returns   atomic.Int64
}

// NewSyncPool creates an empty SyncPool.
func NewSyncPool[T any]() *SyncPool[T] {
	sp := &SyncPool[T]{}
	sp.pool = &sync.Pool{New: func() any {
		sp.fallbacks.Add(1)
		return new(T)
	}}
	return sp
}

func (sp *SyncPool[T]) Allocate() *T {
	sp.allocs.Add(1)
	return sp.pool.Get().(*T)
}

func (sp *SyncPool[T]) Deallocate(obj *T) {
	if obj == nil {
		return
	}
	sp.returns.Add(1)
	sp.pool.Put(obj)
}

func (sp *SyncPool[T]) Stats() api.PoolStats {
	allocs := sp.allocs.Load()
	fallbacks := sp.fallbacks.Load()
	returns := sp.returns.Load()
	return api.PoolStats{
		Hits:        allocs - fallbacks,
		Fallbacks:   fallbacks,
		Returns:     returns,
		Outstanding: allocs - returns,
	}
}

var _ api.Allocator[int] = (*SyncPool[int])(nil)
