package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-mempool/api"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100000, cfg.Capacity)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 250000, cfg.IterationsPerWorker)
	assert.Equal(t, AllStrategies, cfg.Strategies)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 64\nworkers: 2\nstrategies: [mutex, lockfree]\n"), 0o600))
	t.Setenv("MEMPOOL_ITERATIONS", "500")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Capacity)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 500, cfg.Iterations)
	assert.Equal(t, []string{"mutex", "lockfree"}, cfg.Strategies)
	assert.True(t, cfg.Enabled(StrategyLockFree))
	assert.False(t, cfg.Enabled(StrategyHeap))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	cfg.Strategies = []string{"arena"}
	cfg.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrInvalidArgument))
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), `"arena"`)
	assert.Contains(t, err.Error(), `"xml"`)
}

func TestWriteYAML_RoundTrips(t *testing.T) {
	cfg := Default()
	cfg.Pin = true

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))

	var back Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, cfg, back)
}
