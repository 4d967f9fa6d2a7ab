// File: bench/runner.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scenario runner. Each selected strategy is measured in three scenarios:
// batch (one goroutine allocates everything, then returns everything),
// shared (workers contend on one pool) and local (one pool per worker).

package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-mempool/affinity"
	"github.com/momentics/hioload-mempool/api"
	"github.com/momentics/hioload-mempool/config"
	"github.com/momentics/hioload-mempool/control"
	"github.com/momentics/hioload-mempool/pool"
)

// Scenario names.
const (
	ScenarioBatch  = "batch"
	ScenarioShared = "shared"
	ScenarioLocal  = "local"
)

// Scenarios lists the scenarios in execution order.
var Scenarios = []string{ScenarioBatch, ScenarioShared, ScenarioLocal}

// ctxCheckEvery bounds how many operations run between context checks.
const ctxCheckEvery = 4096

// Result is the timing of one strategy in one scenario.
type Result struct {
	Scenario  string        `json:"scenario"`
	Strategy  string        `json:"strategy"`
	Workers   int           `json:"workers"`
	Ops       int64         `json:"ops"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	NsPerOp   float64       `json:"ns_per_op"`
	Fallbacks int64         `json:"fallbacks"`
}

// Runner executes the scenario matrix described by a config.Config.
type Runner struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *control.MetricsRegistry
	probes  *control.DebugProbes
	limiter api.WarningLimiter
	cpus    []int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMetrics registers every benchmarked pool with mr.
func WithMetrics(mr *control.MetricsRegistry) RunnerOption {
	return func(r *Runner) { r.metrics = mr }
}

// WithProbes registers debug probes for every benchmarked pool.
func WithProbes(dp *control.DebugProbes) RunnerOption {
	return func(r *Runner) { r.probes = dp }
}

// NewRunner validates cfg and prepares a runner.
func NewRunner(cfg config.Config, log *zap.Logger, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		cfg:     cfg,
		log:     log,
		limiter: pool.NewCountLimiter(cfg.WarnCeiling),
	}
	for _, o := range opts {
		o(r)
	}
	if cfg.Pin {
		cpus, err := affinity.AllowedCPUs()
		if err != nil {
			log.Warn("cpu pinning disabled", zap.Error(err))
		} else {
			r.cpus = cpus
		}
	}
	return r, nil
}

// Run executes every scenario for every selected strategy.
// It stops at the first error or when ctx is done.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	var results []Result
	for _, scenario := range Scenarios {
		for _, strategy := range r.cfg.Strategies {
			if scenario == ScenarioShared && !concurrent(strategy) {
				r.log.Debug("strategy skipped, not safe for concurrent use",
					zap.String("scenario", scenario), zap.String("strategy", strategy))
				continue
			}
			res, err := r.runOne(ctx, scenario, strategy)
			if err != nil {
				return results, fmt.Errorf("%s/%s: %w", scenario, strategy, err)
			}
			r.log.Info("scenario complete",
				zap.String("scenario", res.Scenario),
				zap.String("strategy", res.Strategy),
				zap.Int("workers", res.Workers),
				zap.Duration("elapsed", res.Elapsed),
				zap.Float64("ns_per_op", res.NsPerOp),
				zap.Int64("fallbacks", res.Fallbacks),
			)
			results = append(results, res)
		}
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, scenario, strategy string) (res Result, err error) {
	t, err := r.build(scenario, strategy)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := t.close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	name := scenario + "." + strategy
	if r.metrics != nil {
		if err := r.metrics.RegisterPool(name, t.stats); err != nil {
			return Result{}, err
		}
	}
	if r.probes != nil {
		r.probes.RegisterPoolProbes(name, t.stats)
	}

	res = Result{Scenario: scenario, Strategy: strategy, Workers: len(t.workers)}
	start := time.Now()
	if scenario == ScenarioBatch {
		err = runBatch(ctx, t.workers[0], r.cfg.Iterations)
		res.Ops = int64(r.cfg.Iterations)
	} else {
		err = r.runWorkers(ctx, t.workers)
		res.Ops = int64(len(t.workers)) * int64(r.cfg.IterationsPerWorker)
	}
	res.Elapsed = time.Since(start)
	if err != nil {
		return Result{}, err
	}
	if res.Ops > 0 {
		res.NsPerOp = float64(res.Elapsed.Nanoseconds()) / float64(res.Ops)
	}
	res.Fallbacks = t.stats.Stats().Fallbacks
	return res, nil
}

// runBatch allocates n objects into a slice, then returns all of them.
// Objects already taken are returned even when ctx ends the run early.
func runBatch(ctx context.Context, a api.Allocator[Payload], n int) error {
	objs := make([]*Payload, 0, n)
	defer func() {
		for _, obj := range objs {
			a.Deallocate(obj)
		}
	}()
	for i := 0; i < n; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		obj := a.Allocate()
		obj.fill(i)
		objs = append(objs, obj)
	}
	return nil
}

func (r *Runner) runWorkers(ctx context.Context, workers []api.Allocator[Payload]) error {
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		w := w
		g.Go(func() error {
			if release := r.pin(w); release != nil {
				defer release()
			}
			return churn(gctx, workers[w], r.cfg.IterationsPerWorker)
		})
	}
	return g.Wait()
}

// churn runs n allocate/write/deallocate cycles.
func churn(ctx context.Context, a api.Allocator[Payload], n int) error {
	for done := 0; done < n; {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(done+ctxCheckEvery, n)
		for i := done; i < end; i++ {
			obj := a.Allocate()
			obj.fill(i)
			a.Deallocate(obj)
		}
		done = end
	}
	return nil
}

func (r *Runner) pin(worker int) func() {
	if len(r.cpus) == 0 {
		return nil
	}
	cpu := r.cpus[worker%len(r.cpus)]
	release, err := affinity.Pin(cpu)
	if err != nil {
		r.log.Debug("pin failed", zap.Int("worker", worker), zap.Int("cpu", cpu), zap.Error(err))
		return nil
	}
	return release
}
