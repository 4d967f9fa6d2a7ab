// File: pool/mutex.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mutex-guarded LIFO pool, the blocking baseline for concurrent use.

package pool

import (
	"sync"

	"github.com/momentics/hioload-mempool/api"
)

// MutexPool serializes every operation behind a single mutex.
type MutexPool[T any] struct {
	mu       sync.Mutex
	storage  *objectStorage[T]
	free     []*T
	capacity int

	hits, fallbacks, returns int64
}

// NewMutexPool pre-populates capacity objects.
func NewMutexPool[T any](capacity int) (*MutexPool[T], error) {
	storage, err := newObjectStorage[T](capacity)
	if err != nil {
		return nil, err
	}
	mp := &MutexPool[T]{
		storage:  storage,
		free:     make([]*T, capacity),
		capacity: capacity,
	}
	for i := range mp.free {
		mp.free[i] = storage.at(i)
	}
	return mp, nil
}

func (mp *MutexPool[T]) Allocate() *T {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	n := len(mp.free)
	if n == 0 {
		mp.fallbacks++
		return new(T)
	}
	obj := mp.free[n-1]
	mp.free[n-1] = nil
	mp.free = mp.free[:n-1]
	mp.hits++
	return obj
}

func (mp *MutexPool[T]) Deallocate(obj *T) {
	if obj == nil {
		return
	}
	mp.mu.Lock()
	mp.free = append(mp.free, obj)
	mp.returns++
	mp.mu.Unlock()
}

func (mp *MutexPool[T]) Stats() api.PoolStats {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return api.PoolStats{
		Capacity:    mp.capacity,
		Available:   int64(len(mp.free)),
		Hits:        mp.hits,
		Fallbacks:   mp.fallbacks,
		Returns:     mp.returns,
		Outstanding: mp.hits + mp.fallbacks - mp.returns,
	}
}

var _ api.Allocator[int] = (*MutexPool[int])(nil)
