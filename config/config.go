// File: config/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Benchmark configuration: defaults, loading through viper (file, env, flags)
// and YAML rendering of the effective settings.

package config

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-mempool/api"
)

// EnvPrefix prefixes environment overrides, e.g. MEMPOOL_CAPACITY.
const EnvPrefix = "MEMPOOL"

// Strategy names accepted in Config.Strategies.
const (
	StrategyHeap     = "heap"
	StrategyVector   = "vector"
	StrategyQueue    = "queue"
	StrategyMutex    = "mutex"
	StrategyRing     = "ring"
	StrategySync     = "sync"
	StrategyLockFree = "lockfree"
)

// AllStrategies lists every strategy in report order.
var AllStrategies = []string{
	StrategyHeap, StrategyVector, StrategyQueue, StrategyMutex,
	StrategyRing, StrategySync, StrategyLockFree,
}

// Config holds benchmark parameters.
type Config struct {
	Capacity            int      `mapstructure:"capacity" yaml:"capacity"`
	Iterations          int      `mapstructure:"iterations" yaml:"iterations"`
	Workers             int      `mapstructure:"workers" yaml:"workers"`
	IterationsPerWorker int      `mapstructure:"iterations_per_worker" yaml:"iterations_per_worker"`
	LocalCapacity       int      `mapstructure:"local_capacity" yaml:"local_capacity"`
	Strategies          []string `mapstructure:"strategies" yaml:"strategies"`
	Pin                 bool     `mapstructure:"pin" yaml:"pin"`
	WarnCeiling         int      `mapstructure:"warn_ceiling" yaml:"warn_ceiling"`
	Format              string   `mapstructure:"format" yaml:"format"`
	Output              string   `mapstructure:"output" yaml:"output"`
	MetricsFile         string   `mapstructure:"metrics_file" yaml:"metrics_file"`
	LogLevel            string   `mapstructure:"log_level" yaml:"log_level"`
}

// Default mirrors the original demo driver: 100000 pooled objects, one
// million allocations per batch test and 4 workers x 250000 iterations.
func Default() Config {
	return Config{
		Capacity:            100000,
		Iterations:          1000000,
		Workers:             4,
		IterationsPerWorker: 250000,
		LocalCapacity:       100000 / runtime.NumCPU(),
		Strategies:          append([]string(nil), AllStrategies...),
		WarnCeiling:         10,
		Format:              "text",
		LogLevel:            "info",
	}
}

// SetDefaults registers Default() values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("capacity", d.Capacity)
	v.SetDefault("iterations", d.Iterations)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("iterations_per_worker", d.IterationsPerWorker)
	v.SetDefault("local_capacity", d.LocalCapacity)
	v.SetDefault("strategies", d.Strategies)
	v.SetDefault("pin", d.Pin)
	v.SetDefault("warn_ceiling", d.WarnCeiling)
	v.SetDefault("format", d.Format)
	v.SetDefault("output", d.Output)
	v.SetDefault("metrics_file", d.MetricsFile)
	v.SetDefault("log_level", d.LogLevel)
}

// Load reads the configuration from v, honouring an optional config file and
// MEMPOOL_* environment variables, then validates it.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and strategy names.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d: %w", name, v, api.ErrInvalidArgument))
		}
	}
	positive("iterations", c.Iterations)
	positive("workers", c.Workers)
	positive("iterations_per_worker", c.IterationsPerWorker)
	if c.Capacity < 0 {
		errs = append(errs, fmt.Errorf("capacity must not be negative, got %d: %w", c.Capacity, api.ErrInvalidArgument))
	}
	if c.LocalCapacity < 0 {
		errs = append(errs, fmt.Errorf("local_capacity must not be negative, got %d: %w", c.LocalCapacity, api.ErrInvalidArgument))
	}
	if c.WarnCeiling < 0 {
		errs = append(errs, fmt.Errorf("warn_ceiling must not be negative, got %d: %w", c.WarnCeiling, api.ErrInvalidArgument))
	}
	for _, s := range c.Strategies {
		if !isStrategy(s) {
			errs = append(errs, fmt.Errorf("unknown strategy %q: %w", s, api.ErrInvalidArgument))
		}
	}
	switch c.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown format %q: %w", c.Format, api.ErrInvalidArgument))
	}
	return errors.Join(errs...)
}

// Enabled reports whether strategy s is selected.
func (c Config) Enabled(s string) bool {
	for _, v := range c.Strategies {
		if v == s {
			return true
		}
	}
	return false
}

// WriteYAML renders the configuration as YAML.
func (c Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

func isStrategy(s string) bool {
	for _, v := range AllStrategies {
		if v == s {
			return true
		}
	}
	return false
}
