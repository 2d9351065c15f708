package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skyhaven/go-flight-metrics/internal/util"
)

var (
	// Logging related
	debug bool

	// Harness layout
	baseDir string

	rootCmd = &cobra.Command{
		Use:   "go-flight-metrics [flags]",
		Short: "Flight simulation metrics harness",
		Long: `go-flight-metrics generates fixture flight telemetry, forwards it through
the simulation file layout, and converts the results into metrics.binproto
artifacts.

Run without a subcommand it behaves like the harness metrics entry point:
batch metrics when inputs/batch_metrics_config.json exists, single-run
metrics otherwise.

Examples:
  go-flight-metrics genflight                  # Write the fixture flight log
  go-flight-metrics simrun                     # Forward inputs to outputs
  go-flight-metrics metrics --print            # Build and display run metrics
  go-flight-metrics metrics --watch            # Rebuild on input changes
  go-flight-metrics batch                      # Aggregate a fetched batch
  go-flight-metrics --base-dir /tmp/other      # Use another harness root`,
		RunE: runDispatch,
	}
)

const defaultLogFile = "~/.go-flight-metrics/logs/app.log"

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "/tmp/resim",
		"Harness base directory (inputs/ and outputs/ live beneath it)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

// setup initializes logging and resolves the harness layout. Every
// command goes through it.
func setup() util.Paths {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := util.ExpandPath(defaultLogFile)
	if err := util.EnsureDir(filepath.Dir(logFile)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot create log directory: %v\n", err)
	}
	util.InitLogger(logLevel, logFile, debug)

	return util.Paths{Base: util.ExpandPath(baseDir)}
}

// runDispatch mirrors the harness metrics entry point: batch metrics when
// the batch config is present, single-run metrics otherwise.
func runDispatch(cmd *cobra.Command, args []string) error {
	paths := setup()
	util.LogInfo("Starting to build metrics")

	if _, err := os.Stat(paths.BatchConfig()); err == nil {
		util.LogInfo("Batch config found, running batch metrics")
		return buildBatchMetrics(cmd, paths)
	}
	util.LogInfo("No batch config, running test metrics")
	return buildTestMetrics(paths, paths.ProcessedFlightLog(), false)
}

func Execute() error {
	return rootCmd.Execute()
}
