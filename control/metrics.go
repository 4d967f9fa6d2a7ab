// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for allocator monitoring.
// Pools register a stats source; values are read at scrape time and exposed
// through a private Prometheus registry.

package control

import (
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/momentics/hioload-mempool/api"
)

const namespace = "mempool"

// MetricsRegistry holds registered pool stats sources.
type MetricsRegistry struct {
	mu      sync.RWMutex
	sources map[string]api.StatsReporter
	reg     *prometheus.Registry
}

// NewMetricsRegistry creates a registry exporting pool metrics plus Go runtime metrics.
func NewMetricsRegistry() *MetricsRegistry {
	mr := &MetricsRegistry{
		sources: make(map[string]api.StatsReporter),
		reg:     prometheus.NewRegistry(),
	}
	mr.reg.MustRegister(collectors.NewGoCollector())
	mr.reg.MustRegister(newPoolCollector(mr))
	return mr
}

// RegisterPool adds a named stats source. Names must be unique.
func (mr *MetricsRegistry) RegisterPool(name string, src api.StatsReporter) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if _, dup := mr.sources[name]; dup {
		return api.NewError(api.ErrCodeInvalidArgument, "control: pool already registered").
			WithContext("pool", name)
	}
	mr.sources[name] = src
	return nil
}

// GetSnapshot returns the latest stats of every registered pool.
func (mr *MetricsRegistry) GetSnapshot() map[string]api.PoolStats {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]api.PoolStats, len(mr.sources))
	for name, src := range mr.sources {
		out[name] = src.Stats()
	}
	return out
}

// Gatherer exposes the underlying registry.
func (mr *MetricsRegistry) Gatherer() prometheus.Gatherer {
	return mr.reg
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (mr *MetricsRegistry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, mr.reg); err != nil {
		return fmt.Errorf("control: write metrics %s: %w", path, err)
	}
	return nil
}

type poolMetric struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(api.PoolStats) float64
}

type poolCollector struct {
	mr      *MetricsRegistry
	metrics []poolMetric
}

func newPoolCollector(mr *MetricsRegistry) *poolCollector {
	gauge := func(name, help string, fn func(api.PoolStats) float64) poolMetric {
		return poolMetric{
			desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, []string{"pool"}, nil),
			kind:  prometheus.GaugeValue,
			value: fn,
		}
	}
	counter := func(name, help string, fn func(api.PoolStats) float64) poolMetric {
		m := gauge(name, help, fn)
		m.kind = prometheus.CounterValue
		return m
	}
	return &poolCollector{
		mr: mr,
		metrics: []poolMetric{
			gauge("capacity", "Initial object population.", func(s api.PoolStats) float64 { return float64(s.Capacity) }),
			gauge("available", "Objects currently held by the pool.", func(s api.PoolStats) float64 { return float64(s.Available) }),
			gauge("outstanding", "Objects currently checked out.", func(s api.PoolStats) float64 { return float64(s.Outstanding) }),
			gauge("nodes", "Free-list nodes ever created.", func(s api.PoolStats) float64 { return float64(s.Nodes) }),
			counter("hits_total", "Allocations served from the pool.", func(s api.PoolStats) float64 { return float64(s.Hits) }),
			counter("fallbacks_total", "Allocations served by fresh construction.", func(s api.PoolStats) float64 { return float64(s.Fallbacks) }),
			counter("returns_total", "Objects handed back to the pool.", func(s api.PoolStats) float64 { return float64(s.Returns) }),
			counter("dropped_total", "Returned objects released instead of pooled.", func(s api.PoolStats) float64 { return float64(s.Dropped) }),
		},
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.mr.GetSnapshot()
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st := snap[name]
		for _, m := range c.metrics {
			ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(st), name)
		}
	}
}
