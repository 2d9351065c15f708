package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

// Writer accumulates metrics for a single job and assembles them into a
// JobMetrics message. It is not safe for concurrent use.
type Writer struct {
	jobID    uuid.UUID
	builders []builder
	names    map[string]bool
}

type builder interface {
	toProto() *binproto.Metric
	series() []*SeriesData
}

// NewWriter creates a metrics writer for the given job ID.
func NewWriter(jobID uuid.UUID) *Writer {
	return &Writer{
		jobID: jobID,
		names: make(map[string]bool),
	}
}

// JobID returns the job this writer belongs to.
func (w *Writer) JobID() uuid.UUID {
	return w.jobID
}

func (w *Writer) register(name string, b builder) {
	if w.names[name] {
		util.LogWarnf("Metric name %q is being added again", name)
	}
	w.names[name] = true
	w.builders = append(w.builders, b)
}

// Write assembles the accumulated metrics into a JobMetrics message.
// Referenced series data columns (and their index columns) are collected
// in first-reference order and deduplicated by name.
func (w *Writer) Write() (*binproto.JobMetrics, error) {
	jm := &binproto.JobMetrics{JobID: w.jobID.String()}

	seen := make(map[string]*SeriesData)
	var order []string
	var collect func(sd *SeriesData) error
	collect = func(sd *SeriesData) error {
		if sd == nil {
			return nil
		}
		if sd.Name == "" {
			return fmt.Errorf("series data has no name")
		}
		if prev, ok := seen[sd.Name]; ok {
			if prev != sd {
				return fmt.Errorf("series data name %q used by two different series", sd.Name)
			}
			return nil
		}
		if err := collect(sd.Index); err != nil {
			return err
		}
		seen[sd.Name] = sd
		order = append(order, sd.Name)
		return nil
	}

	for _, b := range w.builders {
		jm.Metrics = append(jm.Metrics, b.toProto())
		for _, sd := range b.series() {
			if err := collect(sd); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range order {
		jm.MetricsData = append(jm.MetricsData, seen[name].toProto())
	}

	return jm, nil
}

// WriteFile assembles, validates, and serializes the metrics to path,
// creating the parent directory if needed.
func (w *Writer) WriteFile(path string) error {
	jm, err := w.Write()
	if err != nil {
		return fmt.Errorf("assemble metrics: %w", err)
	}
	if err := Validate(jm); err != nil {
		return fmt.Errorf("validate metrics: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, binproto.Marshal(jm), 0644); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	util.LogInfof("Wrote %d metrics to %s", len(jm.Metrics), path)
	return nil
}
