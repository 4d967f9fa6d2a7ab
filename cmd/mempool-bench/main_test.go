package main

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-mempool/api"
	"github.com/momentics/hioload-mempool/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mempool-bench v"+version)
}

func TestConfig_FlagsOverrideDefaults(t *testing.T) {
	out, err := execute(t, "config", "--capacity", "42", "--strategies", "mutex,lockfree")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 42, cfg.Capacity)
	assert.Equal(t, []string{"mutex", "lockfree"}, cfg.Strategies)
	assert.Equal(t, config.Default().Workers, cfg.Workers)
}

func TestConfig_RejectsInvalid(t *testing.T) {
	_, err := execute(t, "config", "--format", "xml")
	require.Error(t, err)
}

func TestRun_JSONReportAndMetrics(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "pools.prom")
	out, err := execute(t, "run",
		"--capacity", "8",
		"--local-capacity", "4",
		"--iterations", "100",
		"--workers", "2",
		"--iterations-per-worker", "500",
		"--strategies", "lockfree",
		"--format", "json",
		"--log-level", "error",
		"--metrics-file", metrics,
	)
	require.NoError(t, err)

	var report struct {
		Results []struct {
			Scenario string `json:"scenario"`
			Strategy string `json:"strategy"`
		} `json:"results"`
	}
	require.NoError(t, gojson.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 3)
	assert.Equal(t, "batch", report.Results[0].Scenario)
	assert.Equal(t, "lockfree", report.Results[2].Strategy)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mempool_pool_hits_total{pool="shared.lockfree"}`)
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	out, err := execute(t, "run",
		"--capacity", "4",
		"--local-capacity", "2",
		"--iterations", "10",
		"--workers", "1",
		"--iterations-per-worker", "10",
		"--strategies", "heap",
		"--log-level", "error",
		"--output", path,
	)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SCENARIO")
	assert.Contains(t, string(data), "heap")
}

func TestRun_OversizedPoolFails(t *testing.T) {
	if strconv.IntSize == 32 {
		t.Skip("capacity above MaxInt32 is not representable")
	}
	out, err := execute(t, "run",
		"--capacity", strconv.FormatInt(math.MaxInt32+1, 10),
		"--iterations", "10",
		"--strategies", "lockfree",
		"--log-level", "fatal",
	)
	require.Error(t, err, "main exits non-zero on this error")
	assert.True(t, errors.Is(err, api.ErrOutOfMemory))
	assert.Empty(t, out, "no report on failure")
}
