package formatter

import (
	"fmt"

	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
)

// MetricRow is one metric flattened for display.
type MetricRow struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Status     string `json:"status"`
	Importance string `json:"importance"`
	Value      string `json:"value"`
}

// Rows flattens a JobMetrics message for display, in metric order.
func Rows(jm *binproto.JobMetrics) []MetricRow {
	rows := make([]MetricRow, 0, len(jm.Metrics))
	for _, m := range jm.Metrics {
		rows = append(rows, MetricRow{
			Name:       m.Name,
			Kind:       kindLabel(m.Type),
			Status:     m.Status.String(),
			Importance: m.Importance.String(),
			Value:      valueLabel(m),
		})
	}
	return rows
}

func kindLabel(t binproto.MetricType) string {
	switch t {
	case binproto.TypeScalar:
		return "scalar"
	case binproto.TypeDoubleOverTime:
		return "double-over-time"
	case binproto.TypeStatesOverTime:
		return "states-over-time"
	case binproto.TypeLinePlot:
		return "line-plot"
	case binproto.TypeHistogram:
		return "histogram"
	case binproto.TypeText:
		return "text"
	case binproto.TypePlotly:
		return "plotly"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

func valueLabel(m *binproto.Metric) string {
	switch {
	case m.Scalar != nil:
		if m.Scalar.Unit != "" {
			return fmt.Sprintf("%.2f %s", m.Scalar.Value, m.Scalar.Unit)
		}
		return fmt.Sprintf("%.2f", m.Scalar.Value)
	case m.Histogram != nil:
		return fmt.Sprintf("%d buckets", len(m.Histogram.Buckets))
	case m.Text != nil:
		return fmt.Sprintf("%d chars", len(m.Text.Text))
	case m.Plotly != nil:
		return fmt.Sprintf("%d byte figure", len(m.Plotly.PlotlyData))
	default:
		return ""
	}
}
