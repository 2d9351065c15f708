package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skyhaven/go-flight-metrics/internal/data/parser"
	"github.com/skyhaven/go-flight-metrics/internal/metrics"
	"github.com/skyhaven/go-flight-metrics/internal/report"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

var scalarCmd = &cobra.Command{
	Use:   "scalar",
	Short: "Emit a scalar metric from the last generated log value",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := setup()

		samples, err := parser.ParseValueLog(paths.ValueLog())
		if err != nil {
			// The harness tolerates a missing log and reports nothing.
			util.LogWarnf("Cannot read value log: %v", err)
			return nil
		}
		value := parser.LastValue(samples)
		util.LogInfof("Read %d values, last value %.2f", len(samples), value)

		w := metrics.NewWriter(uuid.New())
		report.BuildScalarMetric(w, value)
		return w.WriteFile(paths.MetricsOut())
	},
}

func init() {
	rootCmd.AddCommand(scalarCmd)
}
