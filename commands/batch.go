package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skyhaven/go-flight-metrics/internal/data/parser"
	"github.com/skyhaven/go-flight-metrics/internal/data/scanner"
	"github.com/skyhaven/go-flight-metrics/internal/metrics"
	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
	"github.com/skyhaven/go-flight-metrics/internal/metrics/fetch"
	"github.com/skyhaven/go-flight-metrics/internal/report"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

var batchLocal bool

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Aggregate metrics across a batch of runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := setup()
		if batchLocal {
			return buildLocalBatchMetrics(paths)
		}
		return buildBatchMetrics(cmd, paths)
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchLocal, "local", false,
		"Aggregate flight logs under inputs/ instead of fetching a remote batch")
	rootCmd.AddCommand(batchCmd)
}

// buildLocalBatchMetrics treats every flight log under inputs/ as one run
// of a batch: each is parsed concurrently, turned into a per-run metric
// set, and the batch metrics are aggregated over them. Files that are not
// flight logs are skipped.
func buildLocalBatchMetrics(paths util.Paths) error {
	files, err := scanner.NewFileScanner(paths.InputsDir()).Scan()
	if err != nil {
		return fmt.Errorf("scan inputs: %w", err)
	}
	util.LogInfof("Found %d candidate input files under %s", len(files), paths.InputsDir())

	jobs := make(map[string]*binproto.JobMetrics)
	for result := range parser.NewParser(4).ParseFiles(files) {
		if result.Error != nil {
			util.LogDebugf("Skipping %s: %v", result.File, result.Error)
			continue
		}
		w := metrics.NewWriter(uuid.New())
		if err := report.BuildFlightMetrics(w, result.Record); err != nil {
			util.LogWarnf("Skipping %s: %v", result.File, err)
			continue
		}
		jm, err := w.Write()
		if err != nil {
			return fmt.Errorf("assemble metrics for %s: %w", result.File, err)
		}
		name := strings.TrimSuffix(filepath.Base(result.File), filepath.Ext(result.File))
		jobs[name] = jm
	}
	util.LogInfof("Aggregating %d local runs", len(jobs))

	w := metrics.NewWriter(uuid.New())
	if err := report.BuildBatchMetrics(w, jobs); err != nil {
		return fmt.Errorf("build batch metrics: %w", err)
	}
	if err := w.WriteFile(paths.MetricsOut()); err != nil {
		return err
	}
	util.LogInfo("Completed processing local batch metrics")
	return nil
}

// buildBatchMetrics fetches every job's metrics for the configured batch
// and writes the batch-level artifact.
func buildBatchMetrics(cmd *cobra.Command, paths util.Paths) error {
	cfg, err := fetch.LoadConfig(paths.BatchConfig())
	if err != nil {
		return err
	}

	client := fetch.NewClient(cfg)
	jobs, err := client.FetchJobMetricsByBatch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch batch metrics: %w", err)
	}
	util.LogInfof("Fetched metrics for %d jobs", len(jobs))

	w := metrics.NewWriter(uuid.New())
	if err := report.BuildBatchMetrics(w, jobs); err != nil {
		return fmt.Errorf("build batch metrics: %w", err)
	}
	if err := w.WriteFile(paths.MetricsOut()); err != nil {
		return err
	}
	util.LogInfo("Completed processing batch metrics")
	return nil
}
