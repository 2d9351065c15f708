package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/skyhaven/go-flight-metrics/internal/data/parser"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

var simrunCmd = &cobra.Command{
	Use:   "simrun",
	Short: "Forward inputs/flight_log.json to outputs/processed_flight_log.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := setup()
		util.LogInfo("Starting simulation run")

		record, err := parser.NewParser(1).ParseFlightLog(paths.FlightLog())
		if err != nil {
			// A missing or malformed input ends the run without failing
			// the harness.
			util.LogWarnf("Cannot load flight data: %v", err)
			return nil
		}
		util.LogInfof("Loaded flight data with %d samples from %s",
			len(record.Samples), paths.FlightLog())

		out := paths.ProcessedFlightLog()
		if err := util.EnsureDir(filepath.Dir(out)); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		data, err := sonic.ConfigDefault.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("encode flight record: %w", err)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("write processed flight log: %w", err)
		}

		util.LogInfof("Completed writing flight data to %s", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simrunCmd)
}
