package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
)

func sampleMetrics() *binproto.JobMetrics {
	return &binproto.JobMetrics{
		JobID: "job-1",
		Metrics: []*binproto.Metric{
			{
				Name:       "Maximum Speed",
				Type:       binproto.TypeScalar,
				Status:     binproto.StatusPassed,
				Importance: binproto.ImportanceHigh,
				Scalar:     &binproto.ScalarValues{Value: 2.0, Unit: "m/s"},
			},
			{
				Name:       "Speed Distribution",
				Type:       binproto.TypeHistogram,
				Status:     binproto.StatusFailWarn,
				Importance: binproto.ImportanceMedium,
				Histogram: &binproto.HistogramValues{
					Buckets: []binproto.HistogramBucket{{Lower: 0, Upper: 1}, {Lower: 1, Upper: 2}},
				},
			},
			{
				Name:   "Flight Summary",
				Type:   binproto.TypeText,
				Status: binproto.StatusPassed,
				Text:   &binproto.TextValues{Text: "hello"},
			},
			{
				Name:   "3D Flight Path",
				Type:   binproto.TypePlotly,
				Status: binproto.StatusFailBlock,
				Plotly: &binproto.PlotlyValues{PlotlyData: "{}"},
			},
		},
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleMetrics())

	require.Len(t, rows, 4)

	assert.Equal(t, "Maximum Speed", rows[0].Name)
	assert.Equal(t, "scalar", rows[0].Kind)
	assert.Equal(t, "passed", rows[0].Status)
	assert.Equal(t, "high", rows[0].Importance)
	assert.Equal(t, "2.00 m/s", rows[0].Value)

	assert.Equal(t, "histogram", rows[1].Kind)
	assert.Equal(t, "fail-warn", rows[1].Status)
	assert.Equal(t, "2 buckets", rows[1].Value)

	assert.Equal(t, "text", rows[2].Kind)
	assert.Equal(t, "5 chars", rows[2].Value)

	assert.Equal(t, "plotly", rows[3].Kind)
	assert.Equal(t, "fail-block", rows[3].Status)
	assert.Equal(t, "2 byte figure", rows[3].Value)
}

func TestRowsScalarWithoutUnit(t *testing.T) {
	jm := &binproto.JobMetrics{
		JobID: "job",
		Metrics: []*binproto.Metric{{
			Name:   "Bare",
			Type:   binproto.TypeScalar,
			Scalar: &binproto.ScalarValues{Value: 1.5},
		}},
	}

	rows := Rows(jm)
	require.Len(t, rows, 1)
	assert.Equal(t, "1.50", rows[0].Value)
	assert.Equal(t, "unspecified", rows[0].Status)
}

func TestKindLabelUnknown(t *testing.T) {
	assert.Equal(t, "unknown(99)", kindLabel(binproto.MetricType(99)))
}

func TestTableFormatterHandlesEmpty(t *testing.T) {
	assert.NoError(t, NewTableFormatter().Format(nil))
}

func TestTableFormatterHandlesRows(t *testing.T) {
	assert.NoError(t, NewTableFormatter().Format(Rows(sampleMetrics())))
}

func TestJSONFormatter(t *testing.T) {
	assert.NoError(t, NewJSONFormatter().Format(Rows(sampleMetrics())))
}

func TestSummaryFormatter(t *testing.T) {
	assert.NoError(t, NewSummaryFormatter().Format(sampleMetrics()))
	assert.NoError(t, NewSummaryFormatter().Format(&binproto.JobMetrics{JobID: "empty"}))
}
