package report

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyhaven/go-flight-metrics/internal/core/model"
	"github.com/skyhaven/go-flight-metrics/internal/data/generator"
	"github.com/skyhaven/go-flight-metrics/internal/metrics"
	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
)

func buildFixtureMetrics(t *testing.T) *binproto.JobMetrics {
	t.Helper()
	w := metrics.NewWriter(uuid.New())
	require.NoError(t, BuildFlightMetrics(w, generator.FlightFixture()))
	jm, err := w.Write()
	require.NoError(t, err)
	require.NoError(t, metrics.Validate(jm))
	return jm
}

func TestBuildFlightMetricsOrderAndKinds(t *testing.T) {
	jm := buildFixtureMetrics(t)

	wantNames := []string{
		"Maximum Speed",
		"Speed Over Time",
		"Altitude Over Time",
		"Flight States Over Time",
		"X Position Over Time",
		"Speed Distribution",
		"3D Flight Path",
		"Flight Summary",
	}
	wantTypes := []binproto.MetricType{
		binproto.TypeScalar,
		binproto.TypeDoubleOverTime,
		binproto.TypePlotly,
		binproto.TypeStatesOverTime,
		binproto.TypeLinePlot,
		binproto.TypeHistogram,
		binproto.TypePlotly,
		binproto.TypeText,
	}

	require.Len(t, jm.Metrics, len(wantNames))
	for i, m := range jm.Metrics {
		assert.Equal(t, wantNames[i], m.Name)
		assert.Equal(t, wantTypes[i], m.Type)
	}
}

func TestBuildFlightMetricsMaxSpeed(t *testing.T) {
	jm := buildFixtureMetrics(t)

	m := jm.FindMetric("Maximum Speed")
	require.NotNil(t, m)
	assert.Equal(t, 2.0, m.Scalar.Value)
	assert.Equal(t, "m/s", m.Scalar.Unit)
	assert.Equal(t, binproto.StatusPassed, m.Status)
	assert.Equal(t, binproto.ImportanceHigh, m.Importance)
}

func TestBuildFlightMetricsWarningStatus(t *testing.T) {
	jm := buildFixtureMetrics(t)

	// The fixture carries two Warning samples and no Error samples.
	assert.Equal(t, binproto.StatusFailWarn, jm.FindMetric("Speed Over Time").Status)
	assert.Equal(t, binproto.StatusFailWarn, jm.FindMetric("Altitude Over Time").Status)
	assert.Equal(t, binproto.StatusPassed, jm.FindMetric("Flight States Over Time").Status)
}

func TestBuildFlightMetricsErrorBlocks(t *testing.T) {
	record := generator.FlightFixture()
	record.Samples[5].Status = model.StatusError

	w := metrics.NewWriter(uuid.New())
	require.NoError(t, BuildFlightMetrics(w, record))
	jm, err := w.Write()
	require.NoError(t, err)

	assert.Equal(t, binproto.StatusFailBlock, jm.FindMetric("Speed Over Time").Status)
	assert.Equal(t, binproto.StatusFailBlock, jm.FindMetric("Altitude Over Time").Status)
}

func TestBuildFlightMetricsHistogram(t *testing.T) {
	jm := buildFixtureMetrics(t)

	hv := jm.FindMetric("Speed Distribution").Histogram
	require.NotNil(t, hv)
	require.Len(t, hv.Buckets, 10)
	assert.Equal(t, 0.0, hv.LowerBound)
	assert.Equal(t, 2.0, hv.UpperBound)
	assert.Equal(t, 0.0, hv.Buckets[0].Lower)
	assert.Equal(t, 2.0, hv.Buckets[9].Upper)
}

func TestBuildFlightMetricsFailureDefinition(t *testing.T) {
	jm := buildFixtureMetrics(t)

	dot := jm.FindMetric("Speed Over Time").DoubleOverTime
	require.NotNil(t, dot)
	require.Len(t, dot.FailureDefinitions, 1)
	assert.Equal(t, 0.0, dot.FailureDefinitions[0].FailsBelow)
	assert.Equal(t, 100.0, dot.FailureDefinitions[0].FailsAbove)
}

func TestBuildFlightMetricsSeriesData(t *testing.T) {
	jm := buildFixtureMetrics(t)

	series := jm.SeriesByName()
	speed, ok := series["Speed"]
	require.True(t, ok)
	assert.Len(t, speed.Doubles, 41)
	assert.Equal(t, "Flight Time", speed.IndexData)

	timeSeries, ok := series["Flight Time"]
	require.True(t, ok)
	assert.Len(t, timeSeries.Timestamps, 41)
}

func TestBuildFlightMetricsSummaryText(t *testing.T) {
	jm := buildFixtureMetrics(t)

	text := jm.FindMetric("Flight Summary").Text
	require.NotNil(t, text)
	assert.Contains(t, text.Text, "Total Duration: 41 seconds")
	assert.Contains(t, text.Text, "Maximum Speed: 2.00 m/s")
}

func TestBuildFlightMetricsAltitudeFigureUsesSeconds(t *testing.T) {
	jm := buildFixtureMetrics(t)

	seconds, values, err := firstTraceXY(jm.FindMetric("Altitude Over Time").Plotly.PlotlyData)
	require.NoError(t, err)
	require.Len(t, seconds, 41)
	assert.Equal(t, 0.0, seconds[0])
	assert.Equal(t, 40.0, seconds[40])
	assert.Equal(t, 10.0, values[10], "cruising altitude is 10m")
}

func TestBuildFlightMetricsEmptyRecord(t *testing.T) {
	w := metrics.NewWriter(uuid.New())
	err := BuildFlightMetrics(w, &model.FlightRecord{})
	assert.Error(t, err)
}

func TestBuildScalarMetric(t *testing.T) {
	w := metrics.NewWriter(uuid.New())
	BuildScalarMetric(w, 75.32)

	jm, err := w.Write()
	require.NoError(t, err)
	require.NoError(t, metrics.Validate(jm))

	m := jm.FindMetric("Last Recorded Value")
	require.NotNil(t, m)
	assert.Equal(t, 75.32, m.Scalar.Value)
	require.NotNil(t, m.Scalar.FailureDefinition)
	assert.Equal(t, 0.0, m.Scalar.FailureDefinition.FailsBelow)
	assert.Equal(t, 100.0, m.Scalar.FailureDefinition.FailsAbove)
	assert.False(t, m.Blocking)
	assert.True(t, m.ShouldDisplay)
}

func batchJobs(t *testing.T, n int) map[string]*binproto.JobMetrics {
	t.Helper()
	jobs := make(map[string]*binproto.JobMetrics, n)
	for i := 0; i < n; i++ {
		jm := buildFixtureMetrics(t)
		jm.JobID = uuid.New().String()
		jobs[jm.JobID] = jm
	}
	return jobs
}

func TestBuildBatchMetrics(t *testing.T) {
	jobs := batchJobs(t, 3)

	w := metrics.NewWriter(uuid.New())
	require.NoError(t, BuildBatchMetrics(w, jobs))
	jm, err := w.Write()
	require.NoError(t, err)
	require.NoError(t, metrics.Validate(jm))

	wantNames := []string{
		"Highest Recorded Speed",
		"Average Max Speed",
		"Overall Success Rate",
		"Altitude Comparison",
		"Batch Summary",
	}
	require.Len(t, jm.Metrics, len(wantNames))
	for i, m := range jm.Metrics {
		assert.Equal(t, wantNames[i], m.Name)
	}

	assert.Equal(t, 2.0, jm.FindMetric("Highest Recorded Speed").Scalar.Value)
	assert.Equal(t, 2.0, jm.FindMetric("Average Max Speed").Scalar.Value)
}

func TestBuildBatchMetricsSuccessRate(t *testing.T) {
	jobs := batchJobs(t, 2)

	w := metrics.NewWriter(uuid.New())
	require.NoError(t, BuildBatchMetrics(w, jobs))
	jm, err := w.Write()
	require.NoError(t, err)

	// Each fixture job has 6 passed and 2 fail-warn metrics.
	m := jm.FindMetric("Overall Success Rate")
	require.NotNil(t, m)
	assert.Equal(t, "%", m.Scalar.Unit)
	assert.InDelta(t, 75.0, m.Scalar.Value, 0.01)
	assert.Equal(t, binproto.StatusPassed, m.Status)
}

func TestBuildBatchMetricsEmptyBatchSkipsAverages(t *testing.T) {
	w := metrics.NewWriter(uuid.New())
	require.NoError(t, BuildBatchMetrics(w, map[string]*binproto.JobMetrics{}))
	jm, err := w.Write()
	require.NoError(t, err)

	assert.Nil(t, jm.FindMetric("Highest Recorded Speed"))
	assert.Nil(t, jm.FindMetric("Average Max Speed"))
	assert.NotNil(t, jm.FindMetric("Overall Success Rate"))
	assert.NotNil(t, jm.FindMetric("Batch Summary"))
}

func TestBuildBatchMetricsComparisonTraces(t *testing.T) {
	jobs := batchJobs(t, 2)

	w := metrics.NewWriter(uuid.New())
	require.NoError(t, BuildBatchMetrics(w, jobs))
	jm, err := w.Write()
	require.NoError(t, err)

	var fig struct {
		Data []struct {
			Name string    `json:"name"`
			X    []float64 `json:"x"`
			Y    []float64 `json:"y"`
		} `json:"data"`
	}
	require.NoError(t, sonic.UnmarshalString(jm.FindMetric("Altitude Comparison").Plotly.PlotlyData, &fig))
	require.Len(t, fig.Data, 2, "one overlay trace per job")
	for _, trace := range fig.Data {
		assert.Contains(t, trace.Name, "Flight ")
		assert.Len(t, trace.X, 41)
		assert.Len(t, trace.Y, 41)
	}
}

func TestBuildBatchMetricsSkipsJobsWithoutAltitude(t *testing.T) {
	jobs := batchJobs(t, 1)
	jobs["bare"] = &binproto.JobMetrics{JobID: "bare"}

	traces := altitudeTraces(jobs)
	assert.Len(t, traces, 1)
}

func TestBuildFlightFigureMetrics(t *testing.T) {
	w := metrics.NewWriter(uuid.New())
	require.NoError(t, BuildFlightFigureMetrics(w, generator.FlightFixture()))
	jm, err := w.Write()
	require.NoError(t, err)
	require.NoError(t, metrics.Validate(jm))

	wantNames := []string{
		"Maximum Speed",
		"Speed Over Time",
		"Altitude Over Time",
		"Flight States Over Time",
		"X Position Over Time",
		"Speed Distribution",
		"3D Flight Path",
		"Flight Summary",
	}
	require.Len(t, jm.Metrics, len(wantNames))
	for i, m := range jm.Metrics {
		assert.Equal(t, wantNames[i], m.Name)
	}

	// Every series metric becomes a figure in this variant.
	for _, name := range wantNames[1:7] {
		m := jm.FindMetric(name)
		require.Equal(t, binproto.TypePlotly, m.Type, name)
		assert.NotEmpty(t, m.Plotly.PlotlyData, name)
	}
	assert.Equal(t, binproto.TypeScalar, jm.Metrics[0].Type)
	assert.Equal(t, binproto.TypeText, jm.Metrics[7].Type)
	assert.Empty(t, jm.MetricsData, "figures carry their own data")

	assert.Equal(t, binproto.StatusFailWarn, jm.FindMetric("Speed Over Time").Status)
	assert.Contains(t, jm.FindMetric("Flight States Over Time").Plotly.PlotlyData, "Viridis")
}
