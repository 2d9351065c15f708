package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skyhaven/go-flight-metrics/internal/core/watcher"
	"github.com/skyhaven/go-flight-metrics/internal/data/parser"
	"github.com/skyhaven/go-flight-metrics/internal/metrics"
	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
	"github.com/skyhaven/go-flight-metrics/internal/presentation/formatter"
	"github.com/skyhaven/go-flight-metrics/internal/report"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

var (
	metricsInput        string
	metricsWatch        bool
	metricsPrint        bool
	metricsFigures      bool
	metricsOutputFormat string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Build single-run metrics from a flight log",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := setup()

		input := metricsInput
		if input == "" {
			input = paths.ProcessedFlightLog()
		}

		if err := buildTestMetrics(paths, input, metricsFigures); err != nil {
			return err
		}
		if metricsPrint {
			if err := printMetrics(paths.MetricsOut(), metricsOutputFormat); err != nil {
				return err
			}
		}
		if metricsWatch {
			return watchAndRebuild(paths, input, metricsFigures)
		}
		return nil
	},
}

func init() {
	metricsCmd.Flags().StringVar(&metricsInput, "input", "",
		"Flight log to read (default outputs/processed_flight_log.json)")
	metricsCmd.Flags().BoolVar(&metricsWatch, "watch", false,
		"Rebuild metrics whenever the input changes")
	metricsCmd.Flags().BoolVar(&metricsPrint, "print", false,
		"Print the built metrics after writing")
	metricsCmd.Flags().BoolVar(&metricsFigures, "figures", false,
		"Embed every time series as a plotly figure instead of series data")
	metricsCmd.Flags().StringVarP(&metricsOutputFormat, "output-format", "o", "table",
		"Print format (table, json, summary)")
	rootCmd.AddCommand(metricsCmd)
}

// buildTestMetrics builds the full single-run metric set from the flight
// log at input and writes outputs/metrics.binproto.
func buildTestMetrics(paths util.Paths, input string, figures bool) error {
	record, err := parser.NewParser(1).ParseFlightLog(input)
	if err != nil {
		return fmt.Errorf("load flight data: %w", err)
	}

	build := report.BuildFlightMetrics
	if figures {
		build = report.BuildFlightFigureMetrics
	}
	w := metrics.NewWriter(uuid.New())
	if err := build(w, record); err != nil {
		return fmt.Errorf("build flight metrics: %w", err)
	}
	if err := w.WriteFile(paths.MetricsOut()); err != nil {
		return err
	}
	util.LogInfo("Completed processing metrics")
	return nil
}

// watchAndRebuild blocks, rebuilding the metrics artifact on every
// change to the input file.
func watchAndRebuild(paths util.Paths, input string, figures bool) error {
	fw, err := watcher.NewFileWatcher([]string{filepath.Dir(input)})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fw.Close()

	util.LogInfof("Watching %s for changes", input)
	for event := range fw.Events() {
		if event.Path != input {
			continue
		}
		util.LogInfof("Input changed (%s), rebuilding metrics", event.Operation)
		if err := buildTestMetrics(paths, input, figures); err != nil {
			util.LogErrorf("Rebuild failed: %v", err)
		}
	}
	return nil
}

// printMetrics reads a metrics artifact back and displays it.
func printMetrics(path, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read metrics file: %w", err)
	}
	jm, err := binproto.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	switch format {
	case "json":
		return formatter.NewJSONFormatter().Format(formatter.Rows(jm))
	case "summary":
		return formatter.NewSummaryFormatter().Format(jm)
	case "table", "":
		return formatter.NewTableFormatter().Format(formatter.Rows(jm))
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
