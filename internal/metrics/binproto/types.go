// Package binproto implements the wire format of the metrics.binproto
// artifact. The message layout is defined in metrics.proto; encoding and
// decoding are written against the protobuf wire format directly using
// google.golang.org/protobuf/encoding/protowire.
package binproto

// MetricType discriminates the payload carried by a Metric.
type MetricType int32

const (
	TypeUnspecified    MetricType = 0
	TypeScalar         MetricType = 1
	TypeDoubleOverTime MetricType = 2
	TypeStatesOverTime MetricType = 3
	TypeLinePlot       MetricType = 4
	TypeHistogram      MetricType = 5
	TypeText           MetricType = 6
	TypePlotly         MetricType = 7
)

// MetricStatus is the evaluation outcome attached to a metric or to a
// single sample of a status series.
type MetricStatus int32

const (
	StatusUnspecified MetricStatus = 0
	StatusPassed      MetricStatus = 1
	StatusFailWarn    MetricStatus = 2
	StatusFailBlock   MetricStatus = 3
)

func (s MetricStatus) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailWarn:
		return "fail-warn"
	case StatusFailBlock:
		return "fail-block"
	default:
		return "unspecified"
	}
}

// MetricImportance ranks how prominently the harness UI surfaces a metric.
type MetricImportance int32

const (
	ImportanceZero     MetricImportance = 0
	ImportanceLow      MetricImportance = 1
	ImportanceMedium   MetricImportance = 2
	ImportanceHigh     MetricImportance = 3
	ImportanceCritical MetricImportance = 4
)

func (i MetricImportance) String() string {
	switch i {
	case ImportanceLow:
		return "low"
	case ImportanceMedium:
		return "medium"
	case ImportanceHigh:
		return "high"
	case ImportanceCritical:
		return "critical"
	default:
		return "zero"
	}
}

// JobMetrics is the top-level message written to metrics.binproto.
type JobMetrics struct {
	JobID       string
	Metrics     []*Metric
	MetricsData []*SeriesData
}

// Metric is a single named metric. Exactly one payload field is non-nil,
// matching Type.
type Metric struct {
	Name          string
	Type          MetricType
	Description   string
	Status        MetricStatus
	Importance    MetricImportance
	Blocking      bool
	ShouldDisplay bool

	Scalar         *ScalarValues
	DoubleOverTime *DoubleOverTimeValues
	StatesOverTime *StatesOverTimeValues
	LinePlot       *LinePlotValues
	Histogram      *HistogramValues
	Text           *TextValues
	Plotly         *PlotlyValues
}

type DoubleFailureDefinition struct {
	FailsBelow float64
	FailsAbove float64
}

type ScalarValues struct {
	Value             float64
	Unit              string
	FailureDefinition *DoubleFailureDefinition
}

type DoubleOverTimeValues struct {
	DoublesData        []string
	StatusesData       []string
	YAxisName          string
	FailureDefinitions []DoubleFailureDefinition
}

type StatesOverTimeValues struct {
	StatesData        []string
	StatusesData      []string
	StatesSet         []string
	FailureStates     []string
	LegendSeriesNames []string
}

type LinePlotValues struct {
	XDoublesData      []string
	YDoublesData      []string
	StatusesData      []string
	XAxisName         string
	YAxisName         string
	LegendSeriesNames []string
}

type HistogramValues struct {
	ValuesData   string
	StatusesData string
	Buckets      []HistogramBucket
	LowerBound   float64
	UpperBound   float64
}

type HistogramBucket struct {
	Lower float64
	Upper float64
}

type TextValues struct {
	Text string
}

type PlotlyValues struct {
	PlotlyData string
}

// SeriesData is a named column of series values. Exactly one of Doubles,
// Timestamps, Strings, or Statuses is populated.
type SeriesData struct {
	Name       string
	Unit       string
	IndexData  string
	Doubles    []float64
	Timestamps []Timestamp
	Strings    []string
	Statuses   []MetricStatus
}

// Timestamp is a split epoch timestamp.
type Timestamp struct {
	Secs  int64
	Nanos int32
}

// SeriesByName builds a lookup of the metrics data columns.
func (jm *JobMetrics) SeriesByName() map[string]*SeriesData {
	out := make(map[string]*SeriesData, len(jm.MetricsData))
	for _, sd := range jm.MetricsData {
		out[sd.Name] = sd
	}
	return out
}

// FindMetric returns the first metric with the given name, or nil.
func (jm *JobMetrics) FindMetric(name string) *Metric {
	for _, m := range jm.Metrics {
		if m.Name == name {
			return m
		}
	}
	return nil
}
