// File: pool/lockfree.go
// Package pool implements the non-blocking object pool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// LockFree pre-populates capacity objects and serves them from a lock-free
// free list. When the list is empty Allocate constructs a fresh object and
// emits a throttled warning; every object handed back through Deallocate,
// fallback-constructed or not, joins the free list. The pool therefore grows
// elastically past its initial capacity.

package pool

import (
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-mempool/api"
)

type counter struct {
	n atomic.Int64
	_ cpu.CacheLinePad
}

// LockFree is a multi-producer multi-consumer object pool that never blocks.
type LockFree[T any] struct {
	name     string
	capacity int

	storage *objectStorage[T]
	arena   *nodeArena[T]
	free    freeList[T] // nodes carrying an available object
	spare   freeList[T] // empty nodes awaiting the next Deallocate

	hits      counter
	fallbacks counter
	returns   counter
	dropped   counter

	closed atomic.Bool

	log     *zap.Logger
	limiter api.WarningLimiter
	fatal   func(error)
}

// NewLockFree creates a pool holding capacity zero-value objects.
// It fails with api.ErrOutOfMemory when the backing storage cannot be allocated.
func NewLockFree[T any](capacity int, opts ...Option) (*LockFree[T], error) {
	o := buildOptions("lockfree", opts)

	storage, err := newObjectStorage[T](capacity)
	if err != nil {
		return nil, err
	}
	arena, err := newNodeArena[T](capacity)
	if err != nil {
		return nil, err
	}

	p := &LockFree[T]{
		name:     o.name,
		capacity: capacity,
		storage:  storage,
		arena:    arena,
		log:      o.logger,
		limiter:  o.limiter,
		fatal:    o.fatal,
	}
	p.free.arena = arena
	p.spare.arena = arena

	for i := 0; i < capacity; i++ {
		arena.at(uint32(i)).obj.Store(storage.at(i))
	}
	p.free.seed(capacity)
	return p, nil
}

// Allocate pops a pooled object, or constructs a new one if the pool is empty.
func (p *LockFree[T]) Allocate() *T {
	if obj, ok := p.TryAllocate(); ok {
		return obj
	}
	return p.fallback()
}

// TryAllocate pops a pooled object without falling back to construction.
func (p *LockFree[T]) TryAllocate() (*T, bool) {
	idx, ok := p.free.pop()
	if !ok {
		return nil, false
	}
	obj := p.arena.at(idx).obj.Swap(nil)
	p.spare.push(idx)
	p.hits.n.Add(1)
	return obj, true
}

func (p *LockFree[T]) fallback() *T {
	n := p.fallbacks.n.Add(1)
	if p.limiter.Allow() && !p.closed.Load() {
		p.log.Warn("pool exhausted, constructing new object",
			zap.String("pool", p.name),
			zap.Int("capacity", p.capacity),
			zap.Int64("fallbacks", n),
		)
	}
	return new(T)
}

// Deallocate returns obj to the pool. A nil obj is ignored.
func (p *LockFree[T]) Deallocate(obj *T) {
	if obj == nil {
		return
	}
	if p.closed.Load() {
		p.dropped.n.Add(1)
		return
	}

	idx, ok := p.spare.pop()
	if !ok {
		if idx, ok = p.arena.grow(); !ok {
			p.dropped.n.Add(1)
			p.fatal(api.NewError(api.ErrCodeOutOfMemory, "pool: node arena exhausted").
				WithContext("pool", p.name).
				WithContext("nodes", p.arena.length()))
			return
		}
	}
	p.arena.at(idx).obj.Store(obj)
	p.free.push(idx)
	p.returns.n.Add(1)
}

// Name returns the pool label.
func (p *LockFree[T]) Name() string { return p.name }

// Capacity returns the initial population.
func (p *LockFree[T]) Capacity() int { return p.capacity }

// Available returns the number of objects currently on the free list.
func (p *LockFree[T]) Available() int {
	return int(p.Stats().Available)
}

// Stats returns a snapshot of the pool counters.
func (p *LockFree[T]) Stats() api.PoolStats {
	hits := p.hits.n.Load()
	fallbacks := p.fallbacks.n.Load()
	returns := p.returns.n.Load()
	st := api.PoolStats{
		Capacity:    p.capacity,
		Hits:        hits,
		Fallbacks:   fallbacks,
		Returns:     returns,
		Dropped:     p.dropped.n.Load(),
		Outstanding: hits + fallbacks - returns,
	}
	if !p.closed.Load() {
		st.Available = int64(p.capacity) + returns - hits
		st.Nodes = p.arena.length()
	}
	return st
}

// Close releases the free list and the backing storage.
//
// Every handle obtained from Allocate must have been returned first;
// otherwise Close leaves the pool intact and returns api.ErrOutstandingHandles.
// Close is idempotent. A closed pool serves Allocate by construction and
// drops objects passed to Deallocate.
func (p *LockFree[T]) Close() error {
	if p.closed.Load() {
		return nil
	}
	if out := p.Stats().Outstanding; out > 0 {
		return api.NewError(api.ErrCodeOutstandingHandles, "pool: close with handles checked out").
			WithContext("pool", p.name).
			WithContext("outstanding", out)
	}
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	released := p.free.drain()
	p.spare.head.Store(0)
	p.arena.release()
	p.storage.release()
	p.log.Debug("pool closed", zap.String("pool", p.name), zap.Int("released", released))
	return nil
}

var (
	_ api.Allocator[int] = (*LockFree[int])(nil)
	_ api.StatsReporter  = (*LockFree[int])(nil)
)
