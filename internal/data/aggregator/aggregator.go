// Package aggregator derives summary statistics from flight records and
// from already-built per-job metrics.
package aggregator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skyhaven/go-flight-metrics/internal/core/model"
	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
)

// speedBucketCount fixes the speed histogram at ten equal-width buckets.
const speedBucketCount = 10

// MaxSpeed returns the highest sample speed in the record.
func MaxSpeed(record *model.FlightRecord) (float64, error) {
	if len(record.Samples) == 0 {
		return 0, fmt.Errorf("flight record contains no samples")
	}
	maxSpeed := record.Samples[0].Speed
	for _, s := range record.Samples[1:] {
		if s.Speed > maxSpeed {
			maxSpeed = s.Speed
		}
	}
	return maxSpeed, nil
}

// SpeedBuckets partitions [0, maxSpeed] into ten contiguous equal-width
// buckets.
func SpeedBuckets(maxSpeed float64) []binproto.HistogramBucket {
	width := maxSpeed / speedBucketCount
	buckets := make([]binproto.HistogramBucket, speedBucketCount)
	for i := range buckets {
		buckets[i] = binproto.HistogramBucket{
			Lower: float64(i) * width,
			Upper: float64(i+1) * width,
		}
	}
	// Close the partition exactly despite float accumulation.
	buckets[speedBucketCount-1].Upper = maxSpeed
	return buckets
}

// SampleStatuses maps each sample's status label to a metric status:
// Error blocks, Warning warns, anything else passes.
func SampleStatuses(record *model.FlightRecord) []binproto.MetricStatus {
	statuses := make([]binproto.MetricStatus, len(record.Samples))
	for i, s := range record.Samples {
		switch {
		case s.IsError():
			statuses[i] = binproto.StatusFailBlock
		case s.IsWarning():
			statuses[i] = binproto.StatusFailWarn
		default:
			statuses[i] = binproto.StatusPassed
		}
	}
	return statuses
}

// OverallStatus folds per-sample statuses into one metric status. Any
// error wins over any warning.
func OverallStatus(record *model.FlightRecord) binproto.MetricStatus {
	status := binproto.StatusPassed
	for _, s := range record.Samples {
		if s.IsError() {
			return binproto.StatusFailBlock
		}
		if s.IsWarning() {
			status = binproto.StatusFailWarn
		}
	}
	return status
}

// FlightSummary renders the single-run markdown summary.
func FlightSummary(record *model.FlightRecord) (string, error) {
	maxSpeed, err := MaxSpeed(record)
	if err != nil {
		return "", err
	}
	units := record.Metadata.Units
	var sb strings.Builder
	sb.WriteString("# Flight Summary\n")
	fmt.Fprintf(&sb, "- Total Duration: %d seconds\n", len(record.Samples))
	fmt.Fprintf(&sb, "- States Observed: %s\n", strings.Join(record.States(), ", "))
	fmt.Fprintf(&sb, "- Maximum Speed: %.2f %s\n", maxSpeed, units.Speed)
	fmt.Fprintf(&sb, "- Units: speed %s, position %s/%s/%s, time %s\n",
		units.Speed, units.Position.X, units.Position.Y, units.Position.Z, units.Time)
	return sb.String(), nil
}

// BatchStats accumulates per-job figures for batch-level metrics.
type BatchStats struct {
	MaxSpeeds []float64
	Errors    int
	Warnings  int
	Passes    int
}

// Collect walks every job's metrics in a stable order, recording each
// job's Maximum Speed scalar (when present) and tallying metric
// statuses.
func Collect(jobs map[string]*binproto.JobMetrics) *BatchStats {
	stats := &BatchStats{}

	jobIDs := make([]string, 0, len(jobs))
	for id := range jobs {
		jobIDs = append(jobIDs, id)
	}
	sort.Strings(jobIDs)

	for _, id := range jobIDs {
		jm := jobs[id]
		if m := jm.FindMetric("Maximum Speed"); m != nil && m.Type == binproto.TypeScalar && m.Scalar != nil {
			stats.MaxSpeeds = append(stats.MaxSpeeds, m.Scalar.Value)
		}
		for _, m := range jm.Metrics {
			switch m.Status {
			case binproto.StatusFailBlock:
				stats.Errors++
			case binproto.StatusFailWarn:
				stats.Warnings++
			case binproto.StatusPassed:
				stats.Passes++
			}
		}
	}
	return stats
}

// Highest returns the largest per-job maximum, or false when no job
// reported one.
func (b *BatchStats) Highest() (float64, bool) {
	if len(b.MaxSpeeds) == 0 {
		return 0, false
	}
	highest := b.MaxSpeeds[0]
	for _, v := range b.MaxSpeeds[1:] {
		if v > highest {
			highest = v
		}
	}
	return highest, true
}

// Average returns the mean of the per-job maxima, or false when no job
// reported one.
func (b *BatchStats) Average() (float64, bool) {
	if len(b.MaxSpeeds) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range b.MaxSpeeds {
		sum += v
	}
	return sum / float64(len(b.MaxSpeeds)), true
}

// SuccessRate returns the percentage of passed metric statuses across
// the batch, zero when no statuses were counted.
func (b *BatchStats) SuccessRate() float64 {
	total := b.Errors + b.Warnings + b.Passes
	if total == 0 {
		return 0
	}
	return float64(b.Passes) / float64(total) * 100
}

// SuccessRateStatus grades a success rate: below 70 blocks, below 74
// warns, otherwise passed.
func SuccessRateStatus(rate float64) binproto.MetricStatus {
	switch {
	case rate < 70:
		return binproto.StatusFailBlock
	case rate < 74:
		return binproto.StatusFailWarn
	default:
		return binproto.StatusPassed
	}
}

// BatchSummary renders the batch-level markdown summary.
func BatchSummary(stats *BatchStats) string {
	highest, _ := stats.Highest()
	average, _ := stats.Average()
	rate := stats.SuccessRate()
	var sb strings.Builder
	sb.WriteString("# Flight Batch Summary\n")
	fmt.Fprintf(&sb, "- Total Flights: %d\n", len(stats.MaxSpeeds))
	fmt.Fprintf(&sb, "- Highest Speed: %.2f m/s\n", highest)
	fmt.Fprintf(&sb, "- Average Max Speed: %.2f m/s\n", average)
	fmt.Fprintf(&sb, "- Total Errors: %d\n", stats.Errors)
	fmt.Fprintf(&sb, "- Total Warnings: %d\n", stats.Warnings)
	fmt.Fprintf(&sb, "- Success Rate: %.1f%%\n", rate)
	return sb.String()
}
