// File: pool/heap.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync/atomic"

	"github.com/momentics/hioload-mempool/api"
)

// HeapAllocator is the no-pool reference: every Allocate constructs,
// every Deallocate leaves the object to the GC.
type HeapAllocator[T any] struct {
	allocs  atomic.Int64
	returns atomic.Int64
}

func (h *HeapAllocator[T]) Allocate() *T {
	h.allocs.Add(1)
	return new(T)
}

func (h *HeapAllocator[T]) Deallocate(obj *T) {
	if obj == nil {
		return
	}
	h.returns.Add(1)
}

func (h *HeapAllocator[T]) Stats() api.PoolStats {
	allocs := h.allocs.Load()
	returns := h.returns.Load()
	return api.PoolStats{
		Fallbacks:   allocs,
		Returns:     returns,
		Dropped:     returns,
		Outstanding: allocs - returns,
	}
}

var _ api.Allocator[int] = (*HeapAllocator[int])(nil)
