package cli

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hotpath-go/hotpath"
	"github.com/hotpath-go/hotpath/internal/config"
)

var (
	runConfigPath string
	runVerbose    bool
	runNoColor    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a synthetic workload under a measurement session",
	Long: `Run a synthetic workload described in a config file and emit the
session report when the workload completes.

  hotpath run --config workload.yaml

Allocation modes run the whole workload on a single goroutine locked to
one OS thread, which is the precondition for correct attribution.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkload(cmd)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "workload config file (YAML or JSON)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "log session diagnostics")
	runCmd.Flags().BoolVar(&runNoColor, "no-color", false, "disable colorized output")
	runCmd.MarkFlagRequired("config")
}

func runWorkload(cmd *cobra.Command) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}

	mode, _ := hotpath.ParseMode(cfg.Session.Mode)
	format, _ := hotpath.ParseFormat(cfg.Session.Format)

	logger := zap.NewNop()
	if runVerbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer logger.Sync()
	}

	opts := []hotpath.Option{
		hotpath.WithMode(mode),
		hotpath.WithFormat(format),
		hotpath.WithWriter(cmd.OutOrStdout()),
		hotpath.WithLogger(logger),
	}
	if len(cfg.Session.Percentiles) > 0 {
		opts = append(opts, hotpath.WithPercentiles(cfg.Session.Percentiles...))
	}
	if cfg.Session.Capacity > 0 {
		opts = append(opts, hotpath.WithCapacity(cfg.Session.Capacity))
	}
	if cfg.Session.Limit > 0 {
		opts = append(opts, hotpath.WithLimit(cfg.Session.Limit))
	}
	if runNoColor {
		opts = append(opts, hotpath.WithoutColor())
	}

	if mode != hotpath.ModeTiming {
		// Allocation attribution requires a single pinned worker.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	session := hotpath.Start(cfg.Session.Name, opts...)
	defer session.Stop()

	for _, step := range cfg.Workload {
		for i := 0; i < step.Calls; i++ {
			executeStep(step)
		}
	}
	return nil
}

// executeStep simulates one instrumented call.
func executeStep(step config.WorkloadStep) {
	defer hotpath.Measure(step.Label)()

	if d := step.Duration.Std(); d > 0 {
		time.Sleep(d)
	}

	count := step.AllocCount
	if count == 0 && step.AllocBytes > 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		hotpath.OnAlloc(uint64(step.AllocBytes))
	}
	for i := 0; i < count; i++ {
		hotpath.OnDealloc(uint64(step.AllocBytes))
	}
}
