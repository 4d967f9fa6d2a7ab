// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Debug probe registry for internal inspection of pools and the host.

package control

import (
	"sort"
	"sync"

	"github.com/momentics/hioload-mempool/api"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook, replacing any previous one.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// RegisterPoolProbes adds pool.<name>.{available,outstanding,fallbacks} probes.
func (dp *DebugProbes) RegisterPoolProbes(name string, src api.StatsReporter) {
	prefix := "pool." + name + "."
	dp.RegisterProbe(prefix+"available", func() any { return src.Stats().Available })
	dp.RegisterProbe(prefix+"outstanding", func() any { return src.Stats().Outstanding })
	dp.RegisterProbe(prefix+"fallbacks", func() any { return src.Stats().Fallbacks })
}

// Names returns registered probe names in sorted order.
func (dp *DebugProbes) Names() []string {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	names := make([]string, 0, len(dp.probes))
	for k := range dp.probes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any, len(dp.probes))
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}

var _ api.Debug = (*DebugProbes)(nil)
