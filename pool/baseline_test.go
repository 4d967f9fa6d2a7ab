package pool

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/momentics/hioload-mempool/api"
)

type statsAllocator interface {
	api.Allocator[payload]
	api.StatsReporter
}

func allStrategies(t *testing.T, capacity int) map[string]statsAllocator {
	t.Helper()
	vp, err := NewVectorPool[payload](capacity)
	require.NoError(t, err)
	qp, err := NewQueuePool[payload](capacity)
	require.NoError(t, err)
	mp, err := NewMutexPool[payload](capacity)
	require.NoError(t, err)
	rp, err := NewRingPool[payload](capacity)
	require.NoError(t, err)
	lf, err := NewLockFree[payload](capacity, WithLogger(zap.NewNop()), WithWarningLimiter(NewCountLimiter(0)))
	require.NoError(t, err)
	return map[string]statsAllocator{
		"vector":   vp,
		"queue":    qp,
		"mutex":    mp,
		"ring":     rp,
		"lockfree": lf,
		"sync":     NewSyncPool[payload](),
		"heap":     &HeapAllocator[payload]{},
	}
}

func TestAllocators_Contract(t *testing.T) {
	for name, a := range allStrategies(t, 4) {
		t.Run(name, func(t *testing.T) {
			a.Deallocate(nil)
			assert.Equal(t, int64(0), a.Stats().Returns, "nil deallocate is ignored")

			objs := make([]*payload, 6)
			for i := range objs {
				objs[i] = a.Allocate()
				require.NotNil(t, objs[i])
			}
			for i := range objs {
				for j := i + 1; j < len(objs); j++ {
					require.NotSame(t, objs[i], objs[j])
				}
			}
			for _, obj := range objs {
				a.Deallocate(obj)
			}
			st := a.Stats()
			assert.Equal(t, int64(0), st.Outstanding)
			assert.Equal(t, int64(6), st.Returns)
		})
	}
}

func TestPreallocatedStrategies_Fallback(t *testing.T) {
	for name, a := range allStrategies(t, 4) {
		if name == "sync" || name == "heap" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				a.Allocate()
			}
			st := a.Stats()
			assert.Equal(t, 4, st.Capacity)
			assert.Equal(t, int64(4), st.Hits)
			assert.Equal(t, int64(1), st.Fallbacks)
			assert.Equal(t, int64(0), st.Available)
		})
	}
}

func TestVectorPool_LIFO(t *testing.T) {
	vp, err := NewVectorPool[payload](2)
	require.NoError(t, err)

	a := vp.Allocate()
	b := vp.Allocate()
	vp.Deallocate(a)
	vp.Deallocate(b)

	assert.Same(t, b, vp.Allocate())
	assert.Same(t, a, vp.Allocate())
}

func TestQueuePool_FIFO(t *testing.T) {
	qp, err := NewQueuePool[payload](2)
	require.NoError(t, err)

	a := qp.Allocate()
	b := qp.Allocate()
	qp.Deallocate(a)
	qp.Deallocate(b)

	assert.Same(t, a, qp.Allocate())
	assert.Same(t, b, qp.Allocate())
	assert.Equal(t, int64(0), qp.Stats().Available)
}

func TestRingPool_DropsWhenFull(t *testing.T) {
	rp, err := NewRingPool[payload](4)
	require.NoError(t, err)

	rp.Deallocate(&payload{})

	st := rp.Stats()
	assert.Equal(t, int64(1), st.Dropped)
	assert.Equal(t, int64(4), st.Available)
}

func TestRingPool_BoundIsCapacityNotRingSize(t *testing.T) {
	for _, capacity := range []int{0, 5} {
		t.Run(fmt.Sprintf("capacity=%d", capacity), func(t *testing.T) {
			rp, err := NewRingPool[payload](capacity)
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				rp.Deallocate(&payload{})
			}

			st := rp.Stats()
			assert.Equal(t, int64(capacity), st.Available)
			assert.Equal(t, int64(3), st.Dropped)
		})
	}
}

func TestSyncPool_CountsConstruction(t *testing.T) {
	sp := NewSyncPool[payload]()
	obj := sp.Allocate()
	require.NotNil(t, obj)
	assert.Equal(t, int64(1), sp.Stats().Fallbacks)
	sp.Deallocate(obj)
	assert.Equal(t, int64(0), sp.Stats().Outstanding)
}

func TestConcurrentStrategies_NoDoubleIssue(t *testing.T) {
	const workers = 8
	iterations := 20000
	if testing.Short() {
		iterations = 2000
	}
	mp, err := NewMutexPool[tracked](4)
	require.NoError(t, err)
	rp, err := NewRingPool[tracked](4)
	require.NoError(t, err)

	for name, a := range map[string]api.Allocator[tracked]{"mutex": mp, "ring": rp} {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			errs := make(chan error, workers)
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(id int64) {
					defer wg.Done()
					for i := 0; i < iterations; i++ {
						obj := a.Allocate()
						if !obj.owner.CompareAndSwap(0, id) {
							errs <- fmt.Errorf("worker %d: object already owned", id)
							return
						}
						obj.owner.Store(0)
						a.Deallocate(obj)
					}
				}(int64(w + 1))
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Error(err)
			}
		})
	}
}
