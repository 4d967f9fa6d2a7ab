// File: internal/concurrency/mpmc.go
// Package concurrency provides a bounded lock-free queue.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Multi-producer/multi-consumer bounded queue using per-cell sequence numbers
// (Dmitry Vyukov's design). Producers and consumers contend only on their own
// cursor; cursors live on separate cache lines.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// MPMCQueue is a bounded queue safe for any number of producers and consumers.
type MPMCQueue[T any] struct {
	_     cpu.CacheLinePad
	head  atomic.Uint64
	_     cpu.CacheLinePad
	tail  atomic.Uint64
	_     cpu.CacheLinePad
	mask  uint64
	cells []cell[T]
}

type cell[T any] struct {
	sequence atomic.Uint64
	data     T
}

// NewMPMCQueue creates a queue with capacity rounded up to a power of two (minimum 2).
func NewMPMCQueue[T any](capacity int) *MPMCQueue[T] {
	if capacity < 2 {
		capacity = 2
	}
	size := 1
	for size < capacity {
		size <<= 1
	}

	q := &MPMCQueue[T]{
		mask:  uint64(size - 1),
		cells: make([]cell[T], size),
	}
	for i := range q.cells {
		q.cells[i].sequence.Store(uint64(i))
	}
	return q
}

// Enqueue adds val; returns false if full.
func (q *MPMCQueue[T]) Enqueue(val T) bool {
	for {
		tail := q.tail.Load()
		c := &q.cells[tail&q.mask]
		dif := int64(c.sequence.Load()) - int64(tail)

		switch {
		case dif == 0:
			if q.tail.CompareAndSwap(tail, tail+1) {
				c.data = val
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false
		}
		// tail moved, retry
	}
}

// Dequeue removes and returns an item; ok false if empty.
func (q *MPMCQueue[T]) Dequeue() (item T, ok bool) {
	for {
		head := q.head.Load()
		c := &q.cells[head&q.mask]
		dif := int64(c.sequence.Load()) - int64(head+1)

		switch {
		case dif == 0:
			if q.head.CompareAndSwap(head, head+1) {
				item = c.data
				var zero T
				c.data = zero
				c.sequence.Store(head + q.mask + 1)
				return item, true
			}
		case dif < 0:
			return item, false
		}
	}
}

// Len returns the approximate number of queued items.
func (q *MPMCQueue[T]) Len() int {
	n := int64(q.tail.Load()) - int64(q.head.Load())
	if n < 0 {
		return 0
	}
	return int(n)
}

// Cap returns the queue capacity.
func (q *MPMCQueue[T]) Cap() int {
	return len(q.cells)
}
