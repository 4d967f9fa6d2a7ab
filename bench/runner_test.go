package bench

import (
	"context"
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/momentics/hioload-mempool/api"
	"github.com/momentics/hioload-mempool/config"
	"github.com/momentics/hioload-mempool/control"
)

func smallConfig(strategies ...string) config.Config {
	cfg := config.Default()
	cfg.Capacity = 16
	cfg.LocalCapacity = 8
	cfg.Iterations = 1000
	cfg.Workers = 2
	cfg.IterationsPerWorker = 5000
	if len(strategies) > 0 {
		cfg.Strategies = strategies
	}
	return cfg
}

func TestPayload_FillsCacheLine(t *testing.T) {
	assert.Equal(t, uintptr(64), unsafe.Sizeof(Payload{}))
}

func TestRunner_Matrix(t *testing.T) {
	r, err := NewRunner(smallConfig(), zap.NewNop())
	require.NoError(t, err)

	results, err := r.Run(context.Background())
	require.NoError(t, err)

	count := map[string]int{}
	for _, res := range results {
		count[res.Scenario]++
		assert.Positive(t, res.Ops)
		assert.Positive(t, res.Elapsed)
		assert.Positive(t, res.NsPerOp)
	}
	assert.Equal(t, len(config.AllStrategies), count[ScenarioBatch])
	assert.Equal(t, len(config.AllStrategies)-2, count[ScenarioShared], "vector and queue are single-goroutine")
	assert.Equal(t, len(config.AllStrategies), count[ScenarioLocal])
}

func TestRunner_BatchFallbacks(t *testing.T) {
	r, err := NewRunner(smallConfig(config.StrategyLockFree, config.StrategyHeap), zap.NewNop())
	require.NoError(t, err)

	results, err := r.Run(context.Background())
	require.NoError(t, err)

	byKey := map[string]Result{}
	for _, res := range results {
		byKey[res.Scenario+"/"+res.Strategy] = res
	}
	batch := byKey["batch/lockfree"]
	assert.Equal(t, int64(1000), batch.Ops)
	assert.Equal(t, int64(1000-16), batch.Fallbacks, "objects beyond capacity are constructed")
	assert.Equal(t, int64(1000), byKey["batch/heap"].Fallbacks)

	shared := byKey["shared/lockfree"]
	assert.Equal(t, 2, shared.Workers)
	assert.Equal(t, int64(10000), shared.Ops)
	assert.Equal(t, int64(0), shared.Fallbacks)
	assert.Equal(t, int64(0), byKey["local/lockfree"].Fallbacks)
}

func TestRunner_RegistersPools(t *testing.T) {
	mr := control.NewMetricsRegistry()
	dp := control.NewDebugProbes()
	r, err := NewRunner(smallConfig(config.StrategyMutex, config.StrategyLockFree), zap.NewNop(),
		WithMetrics(mr), WithProbes(dp))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	snap := mr.GetSnapshot()
	for _, name := range []string{"batch.mutex", "shared.lockfree", "local.lockfree", "local.mutex"} {
		st, ok := snap[name]
		require.True(t, ok, name)
		assert.Equal(t, int64(0), st.Outstanding, name)
	}
	assert.Equal(t, int64(2*8), snap["local.lockfree"].Capacity)
	assert.Contains(t, dp.Names(), "pool.shared.mutex.fallbacks")
}

func TestRunner_Canceled(t *testing.T) {
	r, err := NewRunner(smallConfig(config.StrategyLockFree), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunner_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Workers = 0
	_, err := NewRunner(cfg, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrInvalidArgument))
}

func TestRunner_Pinned(t *testing.T) {
	cfg := smallConfig(config.StrategyLockFree)
	cfg.Pin = true
	r, err := NewRunner(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)
}
