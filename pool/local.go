// File: pool/local.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-worker pools. Each worker receives its own Local explicitly instead of
// reaching for thread-local state. Objects must go back through the Local
// they came from; Deallocate does not check provenance.

package pool

import (
	"errors"
	"fmt"

	"github.com/momentics/hioload-mempool/api"
)

// Local is a LockFree pool owned by a single worker.
type Local[T any] struct {
	worker int
	pool   *LockFree[T]
}

// Worker returns the owning worker index.
func (l *Local[T]) Worker() int { return l.worker }

func (l *Local[T]) Allocate() *T { return l.pool.Allocate() }

// Deallocate returns obj to this worker's pool. obj must come from this
// Local; an object from another worker is accepted and silently migrates.
func (l *Local[T]) Deallocate(obj *T) { l.pool.Deallocate(obj) }

func (l *Local[T]) Stats() api.PoolStats { return l.pool.Stats() }

// LocalSet owns one Local per worker.
type LocalSet[T any] struct {
	locals []*Local[T]
}

// NewLocalSet creates workers pools of the given per-worker capacity.
// Pools are named "<name>.<worker>", where name comes from WithName (default "local").
func NewLocalSet[T any](workers, capacity int, opts ...Option) (*LocalSet[T], error) {
	if workers <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "pool: worker count must be positive").
			WithContext("workers", workers)
	}
	base := buildOptions("local", opts).name

	set := &LocalSet[T]{locals: make([]*Local[T], workers)}
	for i := range set.locals {
		popts := append(opts[:len(opts):len(opts)], WithName(fmt.Sprintf("%s.%d", base, i)))
		p, err := NewLockFree[T](capacity, popts...)
		if err != nil {
			return nil, fmt.Errorf("worker %d: %w", i, err)
		}
		set.locals[i] = &Local[T]{worker: i, pool: p}
	}
	return set, nil
}

// Len returns the number of workers.
func (s *LocalSet[T]) Len() int { return len(s.locals) }

// Worker returns the Local for worker i.
func (s *LocalSet[T]) Worker(i int) *Local[T] { return s.locals[i] }

// Stats sums the counters of every worker pool.
func (s *LocalSet[T]) Stats() api.PoolStats {
	var total api.PoolStats
	for _, l := range s.locals {
		st := l.pool.Stats()
		total.Capacity += st.Capacity
		total.Available += st.Available
		total.Hits += st.Hits
		total.Fallbacks += st.Fallbacks
		total.Returns += st.Returns
		total.Dropped += st.Dropped
		total.Outstanding += st.Outstanding
		total.Nodes += st.Nodes
	}
	return total
}

// Close closes every worker pool and joins their errors.
func (s *LocalSet[T]) Close() error {
	var errs []error
	for _, l := range s.locals {
		if err := l.pool.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
