package metrics

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
)

const bucketEpsilon = 1e-9

// Validate checks the structural contract of an assembled JobMetrics
// message before it is written out. All failures are collected and
// returned together.
func Validate(jm *binproto.JobMetrics) error {
	var result *multierror.Error

	if jm.JobID == "" {
		result = multierror.Append(result, fmt.Errorf("job ID is empty"))
	}

	series := jm.SeriesByName()
	if len(series) != len(jm.MetricsData) {
		result = multierror.Append(result, fmt.Errorf("duplicate series data names"))
	}
	for _, sd := range jm.MetricsData {
		if sd.Name == "" {
			result = multierror.Append(result, fmt.Errorf("series data with empty name"))
		}
		if sd.IndexData != "" {
			if _, ok := series[sd.IndexData]; !ok {
				result = multierror.Append(result,
					fmt.Errorf("series %q references unknown index series %q", sd.Name, sd.IndexData))
			}
		}
	}

	names := make(map[string]bool, len(jm.Metrics))
	for _, m := range jm.Metrics {
		if m.Name == "" {
			result = multierror.Append(result, fmt.Errorf("metric with empty name"))
			continue
		}
		if names[m.Name] {
			result = multierror.Append(result, fmt.Errorf("duplicate metric name %q", m.Name))
		}
		names[m.Name] = true

		if m.Status < binproto.StatusUnspecified || m.Status > binproto.StatusFailBlock {
			result = multierror.Append(result, fmt.Errorf("metric %q has invalid status %d", m.Name, m.Status))
		}
		if m.Importance < binproto.ImportanceZero || m.Importance > binproto.ImportanceCritical {
			result = multierror.Append(result,
				fmt.Errorf("metric %q has invalid importance %d", m.Name, m.Importance))
		}

		result = multierror.Append(result, validatePayload(m, series))
	}

	return result.ErrorOrNil()
}

func validatePayload(m *binproto.Metric, series map[string]*binproto.SeriesData) error {
	var result *multierror.Error

	checkRefs := func(kind string, refs ...string) {
		for _, ref := range refs {
			if ref == "" {
				continue
			}
			if _, ok := series[ref]; !ok {
				result = multierror.Append(result,
					fmt.Errorf("metric %q references unknown %s series %q", m.Name, kind, ref))
			}
		}
	}

	switch m.Type {
	case binproto.TypeScalar:
		if m.Scalar == nil {
			result = multierror.Append(result, fmt.Errorf("scalar metric %q has no values", m.Name))
		}
	case binproto.TypeDoubleOverTime:
		if m.DoubleOverTime == nil {
			result = multierror.Append(result, fmt.Errorf("double-over-time metric %q has no values", m.Name))
			break
		}
		checkRefs("doubles", m.DoubleOverTime.DoublesData...)
		checkRefs("statuses", m.DoubleOverTime.StatusesData...)
	case binproto.TypeStatesOverTime:
		if m.StatesOverTime == nil {
			result = multierror.Append(result, fmt.Errorf("states-over-time metric %q has no values", m.Name))
			break
		}
		checkRefs("states", m.StatesOverTime.StatesData...)
		checkRefs("statuses", m.StatesOverTime.StatusesData...)
	case binproto.TypeLinePlot:
		if m.LinePlot == nil {
			result = multierror.Append(result, fmt.Errorf("line-plot metric %q has no values", m.Name))
			break
		}
		if len(m.LinePlot.XDoublesData) != len(m.LinePlot.YDoublesData) {
			result = multierror.Append(result,
				fmt.Errorf("line-plot metric %q has %d x series but %d y series",
					m.Name, len(m.LinePlot.XDoublesData), len(m.LinePlot.YDoublesData)))
		}
		checkRefs("x", m.LinePlot.XDoublesData...)
		checkRefs("y", m.LinePlot.YDoublesData...)
		checkRefs("statuses", m.LinePlot.StatusesData...)
	case binproto.TypeHistogram:
		if m.Histogram == nil {
			result = multierror.Append(result, fmt.Errorf("histogram metric %q has no values", m.Name))
			break
		}
		checkRefs("values", m.Histogram.ValuesData)
		checkRefs("statuses", m.Histogram.StatusesData)
		result = multierror.Append(result, validateBuckets(m.Name, m.Histogram))
	case binproto.TypeText:
		if m.Text == nil {
			result = multierror.Append(result, fmt.Errorf("text metric %q has no values", m.Name))
		}
	case binproto.TypePlotly:
		if m.Plotly == nil {
			result = multierror.Append(result, fmt.Errorf("plotly metric %q has no values", m.Name))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("metric %q has unknown type %d", m.Name, m.Type))
	}

	return result.ErrorOrNil()
}

// validateBuckets requires buckets to be well-formed, contiguous, and
// covered by the declared bounds.
func validateBuckets(name string, hv *binproto.HistogramValues) error {
	var result *multierror.Error

	for i, b := range hv.Buckets {
		if b.Upper < b.Lower {
			result = multierror.Append(result,
				fmt.Errorf("histogram %q bucket %d has upper bound below lower bound", name, i))
		}
		if i > 0 && math.Abs(b.Lower-hv.Buckets[i-1].Upper) > bucketEpsilon {
			result = multierror.Append(result,
				fmt.Errorf("histogram %q buckets %d and %d are not contiguous", name, i-1, i))
		}
	}
	if len(hv.Buckets) > 0 {
		if hv.Buckets[0].Lower < hv.LowerBound-bucketEpsilon {
			result = multierror.Append(result,
				fmt.Errorf("histogram %q first bucket starts below lower bound", name))
		}
		if hv.Buckets[len(hv.Buckets)-1].Upper > hv.UpperBound+bucketEpsilon {
			result = multierror.Append(result,
				fmt.Errorf("histogram %q last bucket ends above upper bound", name))
		}
	}

	return result.ErrorOrNil()
}
