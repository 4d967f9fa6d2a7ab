// File: pool/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded lock-free pool over an MPMC sequence queue. Unlike LockFree it never
// grows: objects returned while capacity objects are already held are
// released to the GC.

package pool

import (
	"sync/atomic"

	"github.com/momentics/hioload-mempool/api"
	"github.com/momentics/hioload-mempool/internal/concurrency"
)

// RingPool is safe for concurrent use.
type RingPool[T any] struct {
	queue    *concurrency.MPMCQueue[*T]
	capacity int

	hits      atomic.Int64
	fallbacks atomic.Int64
	returns   atomic.Int64
	dropped   atomic.Int64
}

// NewRingPool pre-populates capacity objects. The ring itself is sized to the
// next power of two; Deallocate enforces capacity on top of it.
func NewRingPool[T any](capacity int) (*RingPool[T], error) {
	storage, err := newObjectStorage[T](capacity)
	if err != nil {
		return nil, err
	}
	rp := &RingPool[T]{
		queue:    concurrency.NewMPMCQueue[*T](capacity),
		capacity: capacity,
	}
	for i := 0; i < capacity; i++ {
		rp.queue.Enqueue(storage.at(i))
	}
	return rp, nil
}

func (rp *RingPool[T]) Allocate() *T {
	if obj, ok := rp.queue.Dequeue(); ok {
		rp.hits.Add(1)
		return obj
	}
	rp.fallbacks.Add(1)
	return new(T)
}

func (rp *RingPool[T]) Deallocate(obj *T) {
	if obj == nil {
		return
	}
	rp.returns.Add(1)
	// Len is approximate under contention; the ring size is the hard bound.
	if rp.queue.Len() >= rp.capacity || !rp.queue.Enqueue(obj) {
		rp.dropped.Add(1)
	}
}

func (rp *RingPool[T]) Stats() api.PoolStats {
	hits := rp.hits.Load()
	fallbacks := rp.fallbacks.Load()
	returns := rp.returns.Load()
	return api.PoolStats{
		Capacity:    rp.capacity,
		Available:   int64(rp.queue.Len()),
		Hits:        hits,
		Fallbacks:   fallbacks,
		Returns:     returns,
		Dropped:     rp.dropped.Load(),
		Outstanding: hits + fallbacks - returns,
	}
}

var _ api.Allocator[int] = (*RingPool[int])(nil)
