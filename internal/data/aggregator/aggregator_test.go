package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyhaven/go-flight-metrics/internal/core/model"
	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
)

func sampleRecord(speeds []float64, statuses []string) *model.FlightRecord {
	record := &model.FlightRecord{
		Metadata: model.Metadata{Units: model.Units{Speed: "m/s", Time: "s",
			Position: model.PositionUnits{X: "m", Y: "m", Z: "m"}}},
	}
	for i, speed := range speeds {
		status := model.StatusOK
		if statuses != nil {
			status = statuses[i]
		}
		record.Samples = append(record.Samples, model.FlightSample{
			Timestamp: "2024-03-18T10:00:00",
			Speed:     speed,
			State:     "Moving",
			Status:    status,
		})
	}
	return record
}

func TestMaxSpeed(t *testing.T) {
	record := sampleRecord([]float64{0, 2.5, 1.75, 2.5, 0}, nil)

	maxSpeed, err := MaxSpeed(record)

	require.NoError(t, err)
	assert.Equal(t, 2.5, maxSpeed)
}

func TestMaxSpeedEmpty(t *testing.T) {
	_, err := MaxSpeed(&model.FlightRecord{})
	assert.Error(t, err)
}

func TestSpeedBucketsPartition(t *testing.T) {
	buckets := SpeedBuckets(2.0)

	require.Len(t, buckets, 10)
	assert.Equal(t, 0.0, buckets[0].Lower)
	assert.Equal(t, 2.0, buckets[9].Upper)
	for i, b := range buckets {
		assert.Less(t, b.Lower, b.Upper, "bucket %d has positive width", i)
		if i > 0 {
			assert.Equal(t, buckets[i-1].Upper, b.Lower, "buckets %d and %d are contiguous", i-1, i)
		}
		assert.InDelta(t, 0.2, b.Upper-b.Lower, 1e-9, "bucket %d is equal-width", i)
	}
}

func TestSampleStatuses(t *testing.T) {
	record := sampleRecord([]float64{1, 1, 1, 1},
		[]string{"OK", "Warning", "Error", "warning"})

	statuses := SampleStatuses(record)

	assert.Equal(t, []binproto.MetricStatus{
		binproto.StatusPassed,
		binproto.StatusFailWarn,
		binproto.StatusFailBlock,
		binproto.StatusFailWarn,
	}, statuses)
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     binproto.MetricStatus
	}{
		{name: "all ok", statuses: []string{"OK", "OK"}, want: binproto.StatusPassed},
		{name: "warning", statuses: []string{"OK", "Warning"}, want: binproto.StatusFailWarn},
		{name: "error wins", statuses: []string{"Warning", "Error", "OK"}, want: binproto.StatusFailBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := sampleRecord(make([]float64, len(tt.statuses)), tt.statuses)
			assert.Equal(t, tt.want, OverallStatus(record))
		})
	}
}

func TestFlightSummary(t *testing.T) {
	record := sampleRecord([]float64{0, 2, 1}, nil)

	summary, err := FlightSummary(record)

	require.NoError(t, err)
	assert.Contains(t, summary, "# Flight Summary")
	assert.Contains(t, summary, "Total Duration: 3 seconds")
	assert.Contains(t, summary, "Maximum Speed: 2.00 m/s")
	assert.Contains(t, summary, "Moving")
}

func jobWithMaxSpeed(speed float64, statuses ...binproto.MetricStatus) *binproto.JobMetrics {
	jm := &binproto.JobMetrics{
		JobID: "job",
		Metrics: []*binproto.Metric{{
			Name:   "Maximum Speed",
			Type:   binproto.TypeScalar,
			Status: binproto.StatusPassed,
			Scalar: &binproto.ScalarValues{Value: speed, Unit: "m/s"},
		}},
	}
	for _, s := range statuses {
		jm.Metrics = append(jm.Metrics, &binproto.Metric{
			Name:   "Other",
			Type:   binproto.TypeText,
			Status: s,
			Text:   &binproto.TextValues{Text: "x"},
		})
	}
	return jm
}

func TestCollect(t *testing.T) {
	jobs := map[string]*binproto.JobMetrics{
		"a": jobWithMaxSpeed(2.0, binproto.StatusPassed, binproto.StatusFailWarn),
		"b": jobWithMaxSpeed(3.0, binproto.StatusFailBlock),
		"c": {JobID: "c"},
	}

	stats := Collect(jobs)

	assert.Equal(t, []float64{2.0, 3.0}, stats.MaxSpeeds)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.Warnings)
	assert.Equal(t, 3, stats.Passes, "two Maximum Speed scalars plus one passed extra")
}

func TestBatchStatsHighestAndAverage(t *testing.T) {
	stats := &BatchStats{MaxSpeeds: []float64{2, 4, 3}}

	highest, ok := stats.Highest()
	require.True(t, ok)
	assert.Equal(t, 4.0, highest)

	average, ok := stats.Average()
	require.True(t, ok)
	assert.Equal(t, 3.0, average)
}

func TestBatchStatsEmpty(t *testing.T) {
	stats := &BatchStats{}

	_, ok := stats.Highest()
	assert.False(t, ok)
	_, ok = stats.Average()
	assert.False(t, ok)
	assert.Equal(t, 0.0, stats.SuccessRate())
}

func TestSuccessRate(t *testing.T) {
	stats := &BatchStats{Passes: 3, Warnings: 1, Errors: 0}
	assert.Equal(t, 75.0, stats.SuccessRate())
}

func TestSuccessRateStatus(t *testing.T) {
	assert.Equal(t, binproto.StatusFailBlock, SuccessRateStatus(69.9))
	assert.Equal(t, binproto.StatusFailWarn, SuccessRateStatus(70))
	assert.Equal(t, binproto.StatusFailWarn, SuccessRateStatus(73.9))
	assert.Equal(t, binproto.StatusPassed, SuccessRateStatus(74))
	assert.Equal(t, binproto.StatusPassed, SuccessRateStatus(100))
}

func TestBatchSummary(t *testing.T) {
	stats := &BatchStats{MaxSpeeds: []float64{2, 3}, Errors: 1, Warnings: 2, Passes: 9}

	summary := BatchSummary(stats)

	assert.Contains(t, summary, "# Flight Batch Summary")
	assert.Contains(t, summary, "Total Flights: 2")
	assert.Contains(t, summary, "Highest Speed: 3.00 m/s")
	assert.Contains(t, summary, "Average Max Speed: 2.50 m/s")
	assert.Contains(t, summary, "Total Errors: 1")
	assert.Contains(t, summary, "Total Warnings: 2")
	assert.Contains(t, summary, "Success Rate: 75.0%")
}
