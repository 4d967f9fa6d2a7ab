// File: cmd/mempool-bench/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// mempool-bench compares the lock-free object pool with the baseline
// strategies and the plain heap.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/momentics/hioload-mempool/bench"
	"github.com/momentics/hioload-mempool/config"
	"github.com/momentics/hioload-mempool/control"
	"github.com/momentics/hioload-mempool/internal/logger"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:           "mempool-bench",
		Short:         "Benchmark object pool strategies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mempool-bench v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return runBench(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	addBenchFlags(runCmd, v)
	root.AddCommand(runCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return cfg.WriteYAML(cmd.OutOrStdout())
		},
	}
	addBenchFlags(configCmd, v)
	root.AddCommand(configCmd)

	return root
}

// addBenchFlags declares the benchmark flags on cmd and binds them to v.
// Viper keeps only the last binding per key, so flags are bound when the
// command actually runs.
func addBenchFlags(cmd *cobra.Command, v *viper.Viper) {
	d := config.Default()
	f := cmd.Flags()
	f.Int("capacity", d.Capacity, "objects preallocated by each shared pool")
	f.Int("iterations", d.Iterations, "allocations in the batch scenario")
	f.Int("workers", d.Workers, "goroutines in the shared and local scenarios")
	f.Int("iterations-per-worker", d.IterationsPerWorker, "allocate/deallocate cycles per worker")
	f.Int("local-capacity", d.LocalCapacity, "objects preallocated by each per-worker pool")
	f.StringSlice("strategies", d.Strategies, "strategies to run")
	f.Bool("pin", d.Pin, "pin each worker to a CPU")
	f.Int("warn-ceiling", d.WarnCeiling, "exhaustion warnings logged before going quiet")
	f.String("format", d.Format, "report format: text or json")
	f.String("output", d.Output, "report file (default stdout)")
	f.String("metrics-file", d.MetricsFile, "write pool metrics in Prometheus text format to this file")
	f.String("log-level", d.LogLevel, "log level")

	keys := map[string]string{
		"capacity":              "capacity",
		"iterations":            "iterations",
		"workers":               "workers",
		"iterations-per-worker": "iterations_per_worker",
		"local-capacity":        "local_capacity",
		"strategies":            "strategies",
		"pin":                   "pin",
		"warn-ceiling":          "warn_ceiling",
		"format":                "format",
		"output":                "output",
		"metrics-file":          "metrics_file",
		"log-level":             "log_level",
	}
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		for flag, key := range keys {
			if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return err
			}
		}
		return nil
	}
}

func runBench(ctx context.Context, stdout io.Writer, cfg config.Config) error {
	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := control.NewMetricsRegistry()
	probes := control.NewDebugProbes()
	control.RegisterPlatformProbes(probes)

	runner, err := bench.NewRunner(cfg, log, bench.WithMetrics(metrics), bench.WithProbes(probes))
	if err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return err
	}

	started := time.Now()
	host := control.CollectHostInfo()
	log.Info("benchmark started",
		zap.Int("capacity", cfg.Capacity),
		zap.Int("workers", cfg.Workers),
		zap.Strings("strategies", cfg.Strategies),
		zap.Int("cpus", host.LogicalCPUs),
	)

	results, err := runner.Run(ctx)
	if err != nil {
		log.Error("benchmark failed", zap.Error(err))
		return err
	}
	log.Debug("final state", zap.Any("probes", probes.DumpState()))

	w := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			log.Error("failed to create report file", zap.String("path", cfg.Output), zap.Error(err))
			return err
		}
		defer f.Close()
		w = f
	}
	if err := bench.NewReport(version, started, host, results).Write(w, cfg.Format); err != nil {
		log.Error("failed to write report", zap.Error(err))
		return err
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error("failed to write metrics", zap.Error(err))
			return err
		}
	}
	return nil
}
