// File: bench/strategy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bench

import (
	"errors"
	"fmt"

	"github.com/momentics/hioload-mempool/api"
	"github.com/momentics/hioload-mempool/config"
	"github.com/momentics/hioload-mempool/pool"
)

type allocator interface {
	api.Allocator[Payload]
	api.StatsReporter
}

// statsFunc adapts a function to api.StatsReporter.
type statsFunc func() api.PoolStats

func (f statsFunc) Stats() api.PoolStats { return f() }

// target is what a scenario drives: one allocator per worker slot.
type target struct {
	workers []api.Allocator[Payload]
	stats   api.StatsReporter
	close   func() error
}

// concurrent reports whether one instance of strategy may be shared by goroutines.
func concurrent(strategy string) bool {
	switch strategy {
	case config.StrategyVector, config.StrategyQueue:
		return false
	}
	return true
}

func (r *Runner) poolOptions(name string) []pool.Option {
	return []pool.Option{
		pool.WithName(name),
		pool.WithLogger(r.log),
		pool.WithWarningLimiter(r.limiter),
	}
}

func (r *Runner) newAllocator(strategy, name string, capacity int) (allocator, error) {
	switch strategy {
	case config.StrategyHeap:
		return &pool.HeapAllocator[Payload]{}, nil
	case config.StrategyVector:
		p, err := pool.NewVectorPool[Payload](capacity)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.StrategyQueue:
		p, err := pool.NewQueuePool[Payload](capacity)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.StrategyMutex:
		p, err := pool.NewMutexPool[Payload](capacity)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.StrategyRing:
		p, err := pool.NewRingPool[Payload](capacity)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.StrategySync:
		return pool.NewSyncPool[Payload](), nil
	case config.StrategyLockFree:
		p, err := pool.NewLockFree[Payload](capacity, r.poolOptions(name)...)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, api.NewError(api.ErrCodeInvalidArgument, "bench: unknown strategy").
		WithContext("strategy", strategy)
}

func (r *Runner) build(scenario, strategy string) (*target, error) {
	name := scenario + "." + strategy
	switch scenario {
	case ScenarioBatch:
		a, err := r.newAllocator(strategy, name, r.cfg.Capacity)
		if err != nil {
			return nil, err
		}
		return &target{workers: []api.Allocator[Payload]{a}, stats: a, close: closer(a)}, nil

	case ScenarioShared:
		a, err := r.newAllocator(strategy, name, r.cfg.Capacity)
		if err != nil {
			return nil, err
		}
		workers := make([]api.Allocator[Payload], r.cfg.Workers)
		for i := range workers {
			workers[i] = a
		}
		return &target{workers: workers, stats: a, close: closer(a)}, nil

	case ScenarioLocal:
		if strategy == config.StrategyLockFree {
			set, err := pool.NewLocalSet[Payload](r.cfg.Workers, r.cfg.LocalCapacity, r.poolOptions(name)...)
			if err != nil {
				return nil, err
			}
			workers := make([]api.Allocator[Payload], set.Len())
			for i := range workers {
				workers[i] = set.Worker(i)
			}
			return &target{workers: workers, stats: set, close: set.Close}, nil
		}
		locals := make([]allocator, r.cfg.Workers)
		workers := make([]api.Allocator[Payload], r.cfg.Workers)
		for i := range locals {
			a, err := r.newAllocator(strategy, fmt.Sprintf("%s.%d", name, i), r.cfg.LocalCapacity)
			if err != nil {
				return nil, fmt.Errorf("worker %d: %w", i, err)
			}
			locals[i], workers[i] = a, a
		}
		return &target{
			workers: workers,
			stats:   statsFunc(func() api.PoolStats { return sumStats(locals) }),
			close: func() error {
				var errs []error
				for _, a := range locals {
					errs = append(errs, closer(a)())
				}
				return errors.Join(errs...)
			},
		}, nil
	}
	return nil, api.NewError(api.ErrCodeInvalidArgument, "bench: unknown scenario").
		WithContext("scenario", scenario)
}

func closer(a any) func() error {
	if c, ok := a.(interface{ Close() error }); ok {
		return c.Close
	}
	return func() error { return nil }
}

func sumStats(as []allocator) api.PoolStats {
	var total api.PoolStats
	for _, a := range as {
		st := a.Stats()
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
