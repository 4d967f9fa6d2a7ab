package affinity

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-mempool/api"
)

func TestPin_NegativeCPU(t *testing.T) {
	_, err := Pin(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrInvalidArgument))
}

func TestPin_FirstAllowedCPU(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("affinity verified on linux only")
	}
	cpus, err := AllowedCPUs()
	require.NoError(t, err)
	require.NotEmpty(t, cpus)

	release, err := Pin(cpus[0])
	require.NoError(t, err)
	release()

	after, err := AllowedCPUs()
	require.NoError(t, err)
	assert.Equal(t, cpus, after, "release restores the previous mask")
}
