// File: pool/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FIFO pool over a ring-buffer queue for single-goroutine use.

package pool

import (
	"github.com/eapache/queue"

	"github.com/momentics/hioload-mempool/api"
)

// QueuePool hands out the least recently returned object first.
// It is NOT safe for concurrent use.
type QueuePool[T any] struct {
	storage  *objectStorage[T]
	q        *queue.Queue
	capacity int

	hits, fallbacks, returns int64
}

// NewQueuePool pre-populates capacity objects.
func NewQueuePool[T any](capacity int) (*QueuePool[T], error) {
	storage, err := newObjectStorage[T](capacity)
	if err != nil {
		return nil, err
	}
	qp := &QueuePool[T]{
		storage:  storage,
		q:        queue.New(),
		capacity: capacity,
	}
	for i := 0; i < capacity; i++ {
		qp.q.Add(storage.at(i))
	}
	return qp, nil
}

func (qp *QueuePool[T]) Allocate() *T {
	if qp.q.Length() == 0 {
		qp.fallbacks++
		return new(T)
	}
	qp.hits++
	return qp.q.Remove().(*T)
}

func (qp *QueuePool[T]) Deallocate(obj *T) {
	if obj == nil {
		return
	}
	qp.q.Add(obj)
	qp.returns++
}

func (qp *QueuePool[T]) Stats() api.PoolStats {
	return api.PoolStats{
		Capacity:    qp.capacity,
		Available:   int64(qp.q.Length()),
		Hits:        qp.hits,
		Fallbacks:   qp.fallbacks,
		Returns:     qp.returns,
		Outstanding: qp.hits + qp.fallbacks - qp.returns,
	}
}

var _ api.Allocator[int] = (*QueuePool[int])(nil)
