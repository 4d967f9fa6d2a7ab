// File: pool/vector.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Slice-backed LIFO pool for single-goroutine use.

package pool

import "github.com/momentics/hioload-mempool/api"

// VectorPool hands out the most recently returned object first.
// It is NOT safe for concurrent use.
type VectorPool[T any] struct {
	storage  *objectStorage[T]
	free     []*T
	capacity int

	hits, fallbacks, returns int64
}

// NewVectorPool pre-populates capacity objects.
func NewVectorPool[T any](capacity int) (*VectorPool[T], error) {
	storage, err := newObjectStorage[T](capacity)
	if err != nil {
		return nil, err
	}
	vp := &VectorPool[T]{
		storage:  storage,
		free:     make([]*T, capacity),
		capacity: capacity,
	}
	for i := range vp.free {
		vp.free[i] = storage.at(i)
	}
	return vp, nil
}

func (vp *VectorPool[T]) Allocate() *T {
	n := len(vp.free)
	if n == 0 {
		vp.fallbacks++
		return new(T)
	}
	obj := vp.free[n-1]
	vp.free[n-1] = nil
	vp.free = vp.free[:n-1]
	vp.hits++
	return obj
}

func (vp *VectorPool[T]) Deallocate(obj *T) {
	if obj == nil {
		return
	}
	vp.free = append(vp.free, obj)
	vp.returns++
}

func (vp *VectorPool[T]) Stats() api.PoolStats {
	return api.PoolStats{
		Capacity:    vp.capacity,
		Available:   int64(len(vp.free)),
		Hits:        vp.hits,
		Fallbacks:   vp.fallbacks,
		Returns:     vp.returns,
		Outstanding: vp.hits + vp.fallbacks - vp.returns,
	}
}

var _ api.Allocator[int] = (*VectorPool[int])(nil)
