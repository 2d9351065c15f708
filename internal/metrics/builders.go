package metrics

import (
	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
)

// metricMeta holds the fields shared by every metric kind. Metrics are
// displayed and non-blocking unless configured otherwise.
type metricMeta struct {
	name          string
	description   string
	status        Status
	importance    Importance
	blocking      bool
	shouldDisplay bool
}

func newMeta(name string) metricMeta {
	return metricMeta{name: name, shouldDisplay: true}
}

func (m *metricMeta) toProto(typ binproto.MetricType) *binproto.Metric {
	return &binproto.Metric{
		Name:          m.name,
		Type:          typ,
		Description:   m.description,
		Status:        m.status,
		Importance:    m.importance,
		Blocking:      m.blocking,
		ShouldDisplay: m.shouldDisplay,
	}
}

// ScalarMetric is a single named value.
type ScalarMetric struct {
	meta       metricMeta
	value      float64
	unit       string
	failureDef *FailureDefinition
}

// AddScalarMetric starts a scalar metric builder.
func (w *Writer) AddScalarMetric(name string) *ScalarMetric {
	m := &ScalarMetric{meta: newMeta(name)}
	w.register(name, m)
	return m
}

func (m *ScalarMetric) WithDescription(d string) *ScalarMetric { m.meta.description = d; return m }
func (m *ScalarMetric) WithStatus(s Status) *ScalarMetric { m.meta.status = s; return m }
func (m *ScalarMetric) WithImportance(i Importance) *ScalarMetric {
	m.meta.importance = i
	return m
}
func (m *ScalarMetric) WithBlocking(b bool) *ScalarMetric { m.meta.blocking = b; return m }
func (m *ScalarMetric) WithShouldDisplay(d bool) *ScalarMetric { m.meta.shouldDisplay = d; return m }
func (m *ScalarMetric) WithValue(v float64) *ScalarMetric { m.value = v; return m }
func (m *ScalarMetric) WithUnit(u string) *ScalarMetric { m.unit = u; return m }
func (m *ScalarMetric) WithFailureDefinition(fd FailureDefinition) *ScalarMetric {
	m.failureDef = &fd
	return m
}

func (m *ScalarMetric) toProto() *binproto.Metric {
	p := m.meta.toProto(binproto.TypeScalar)
	p.Scalar = &binproto.ScalarValues{
		Value:             m.value,
		Unit:              m.unit,
		FailureDefinition: m.failureDef,
	}
	return p
}

func (m *ScalarMetric) series() []*SeriesData { return nil }

// DoubleOverTimeMetric is a time-indexed numeric series with per-sample
// statuses and optional failure bounds.
type DoubleOverTimeMetric struct {
	meta         metricMeta
	doublesData  []*SeriesData
	statusesData []*SeriesData
	yAxisName    string
	failureDefs  []FailureDefinition
}

// AddDoubleOverTimeMetric starts a double-over-time metric builder.
func (w *Writer) AddDoubleOverTimeMetric(name string) *DoubleOverTimeMetric {
	m := &DoubleOverTimeMetric{meta: newMeta(name)}
	w.register(name, m)
	return m
}

func (m *DoubleOverTimeMetric) WithDescription(d string) *DoubleOverTimeMetric {
	m.meta.description = d
	return m
}
func (m *DoubleOverTimeMetric) WithStatus(s Status) *DoubleOverTimeMetric {
	m.meta.status = s
	return m
}
func (m *DoubleOverTimeMetric) WithImportance(i Importance) *DoubleOverTimeMetric {
	m.meta.importance = i
	return m
}
func (m *DoubleOverTimeMetric) WithYAxisName(n string) *DoubleOverTimeMetric {
	m.yAxisName = n
	return m
}
func (m *DoubleOverTimeMetric) WithDoublesOverTimeData(data []*SeriesData) *DoubleOverTimeMetric {
	m.doublesData = data
	return m
}
func (m *DoubleOverTimeMetric) WithStatusesOverTimeData(data []*SeriesData) *DoubleOverTimeMetric {
	m.statusesData = data
	return m
}
func (m *DoubleOverTimeMetric) WithFailureDefinitions(defs []FailureDefinition) *DoubleOverTimeMetric {
	m.failureDefs = defs
	return m
}

func (m *DoubleOverTimeMetric) toProto() *binproto.Metric {
	p := m.meta.toProto(binproto.TypeDoubleOverTime)
	p.DoubleOverTime = &binproto.DoubleOverTimeValues{
		DoublesData:        seriesNames(m.doublesData),
		StatusesData:       seriesNames(m.statusesData),
		YAxisName:          m.yAxisName,
		FailureDefinitions: m.failureDefs,
	}
	return p
}

func (m *DoubleOverTimeMetric) series() []*SeriesData {
	return append(append([]*SeriesData{}, m.doublesData...), m.statusesData...)
}

// StatesOverTimeMetric is a time-indexed series of discrete state labels.
type StatesOverTimeMetric struct {
	meta              metricMeta
	statesData        []*SeriesData
	statusesData      []*SeriesData
	statesSet         []string
	failureStates     []string
	legendSeriesNames []string
}

// AddStatesOverTimeMetric starts a states-over-time metric builder.
func (w *Writer) AddStatesOverTimeMetric(name string) *StatesOverTimeMetric {
	m := &StatesOverTimeMetric{meta: newMeta(name)}
	w.register(name, m)
	return m
}

func (m *StatesOverTimeMetric) WithDescription(d string) *StatesOverTimeMetric {
	m.meta.description = d
	return m
}
func (m *StatesOverTimeMetric) WithStatus(s Status) *StatesOverTimeMetric {
	m.meta.status = s
	return m
}
func (m *StatesOverTimeMetric) WithImportance(i Importance) *StatesOverTimeMetric {
	m.meta.importance = i
	return m
}
func (m *StatesOverTimeMetric) WithStatesOverTimeData(data []*SeriesData) *StatesOverTimeMetric {
	m.statesData = data
	return m
}
func (m *StatesOverTimeMetric) WithStatusesOverTimeData(data []*SeriesData) *StatesOverTimeMetric {
	m.statusesData = data
	return m
}
func (m *StatesOverTimeMetric) WithStatesSet(states []string) *StatesOverTimeMetric {
	m.statesSet = states
	return m
}
func (m *StatesOverTimeMetric) WithFailureStates(states []string) *StatesOverTimeMetric {
	m.failureStates = states
	return m
}
func (m *StatesOverTimeMetric) WithLegendSeriesNames(names []string) *StatesOverTimeMetric {
	m.legendSeriesNames = names
	return m
}

func (m *StatesOverTimeMetric) toProto() *binproto.Metric {
	p := m.meta.toProto(binproto.TypeStatesOverTime)
	p.StatesOverTime = &binproto.StatesOverTimeValues{
		StatesData:        seriesNames(m.statesData),
		StatusesData:      seriesNames(m.statusesData),
		StatesSet:         m.statesSet,
		FailureStates:     m.failureStates,
		LegendSeriesNames: m.legendSeriesNames,
	}
	return p
}

func (m *StatesOverTimeMetric) series() []*SeriesData {
	return append(append([]*SeriesData{}, m.statesData...), m.statusesData...)
}

// LinePlotMetric plots one numeric series against another.
type LinePlotMetric struct {
	meta              metricMeta
	xData             []*SeriesData
	yData             []*SeriesData
	statusesData      []*SeriesData
	xAxisName         string
	yAxisName         string
	legendSeriesNames []string
}

// AddLinePlotMetric starts a line-plot metric builder.
func (w *Writer) AddLinePlotMetric(name string) *LinePlotMetric {
	m := &LinePlotMetric{meta: newMeta(name)}
	w.register(name, m)
	return m
}

func (m *LinePlotMetric) WithDescription(d string) *LinePlotMetric {
	m.meta.description = d
	return m
}
func (m *LinePlotMetric) WithStatus(s Status) *LinePlotMetric { m.meta.status = s; return m }
func (m *LinePlotMetric) WithImportance(i Importance) *LinePlotMetric {
	m.meta.importance = i
	return m
}
func (m *LinePlotMetric) WithXAxisName(n string) *LinePlotMetric { m.xAxisName = n; return m }
func (m *LinePlotMetric) WithYAxisName(n string) *LinePlotMetric { m.yAxisName = n; return m }
func (m *LinePlotMetric) WithXDoublesData(data []*SeriesData) *LinePlotMetric {
	m.xData = data
	return m
}
func (m *LinePlotMetric) WithYDoublesData(data []*SeriesData) *LinePlotMetric {
	m.yData = data
	return m
}
func (m *LinePlotMetric) WithStatusesData(data []*SeriesData) *LinePlotMetric {
	m.statusesData = data
	return m
}
func (m *LinePlotMetric) WithLegendSeriesNames(names []string) *LinePlotMetric {
	m.legendSeriesNames = names
	return m
}

func (m *LinePlotMetric) toProto() *binproto.Metric {
	p := m.meta.toProto(binproto.TypeLinePlot)
	p.LinePlot = &binproto.LinePlotValues{
		XDoublesData:      seriesNames(m.xData),
		YDoublesData:      seriesNames(m.yData),
		StatusesData:      seriesNames(m.statusesData),
		XAxisName:         m.xAxisName,
		YAxisName:         m.yAxisName,
		LegendSeriesNames: m.legendSeriesNames,
	}
	return p
}

func (m *LinePlotMetric) series() []*SeriesData {
	out := append([]*SeriesData{}, m.xData...)
	out = append(out, m.yData...)
	return append(out, m.statusesData...)
}

// HistogramMetric buckets a numeric series into a fixed set of intervals.
type HistogramMetric struct {
	meta         metricMeta
	valuesData   *SeriesData
	statusesData *SeriesData
	buckets      []HistogramBucket
	lowerBound   float64
	upperBound   float64
}

// AddHistogramMetric starts a histogram metric builder.
func (w *Writer) AddHistogramMetric(name string) *HistogramMetric {
	m := &HistogramMetric{meta: newMeta(name)}
	w.register(name, m)
	return m
}

func (m *HistogramMetric) WithDescription(d string) *HistogramMetric {
	m.meta.description = d
	return m
}
func (m *HistogramMetric) WithStatus(s Status) *HistogramMetric { m.meta.status = s; return m }
func (m *HistogramMetric) WithImportance(i Importance) *HistogramMetric {
	m.meta.importance = i
	return m
}
func (m *HistogramMetric) WithValuesData(data *SeriesData) *HistogramMetric {
	m.valuesData = data
	return m
}
func (m *HistogramMetric) WithStatusesData(data *SeriesData) *HistogramMetric {
	m.statusesData = data
	return m
}
func (m *HistogramMetric) WithBuckets(buckets []HistogramBucket) *HistogramMetric {
	m.buckets = buckets
	return m
}
func (m *HistogramMetric) WithLowerBound(v float64) *HistogramMetric { m.lowerBound = v; return m }
func (m *HistogramMetric) WithUpperBound(v float64) *HistogramMetric { m.upperBound = v; return m }

func (m *HistogramMetric) toProto() *binproto.Metric {
	p := m.meta.toProto(binproto.TypeHistogram)
	hv := &binproto.HistogramValues{
		Buckets:    m.buckets,
		LowerBound: m.lowerBound,
		UpperBound: m.upperBound,
	}
	if m.valuesData != nil {
		hv.ValuesData = m.valuesData.Name
	}
	if m.statusesData != nil {
		hv.StatusesData = m.statusesData.Name
	}
	p.Histogram = hv
	return p
}

func (m *HistogramMetric) series() []*SeriesData {
	var out []*SeriesData
	if m.valuesData != nil {
		out = append(out, m.valuesData)
	}
	if m.statusesData != nil {
		out = append(out, m.statusesData)
	}
	return out
}

// TextMetric carries a markdown document.
type TextMetric struct {
	meta metricMeta
	text string
}

// AddTextMetric starts a text metric builder.
func (w *Writer) AddTextMetric(name string) *TextMetric {
	m := &TextMetric{meta: newMeta(name)}
	w.register(name, m)
	return m
}

func (m *TextMetric) WithDescription(d string) *TextMetric { m.meta.description = d; return m }
func (m *TextMetric) WithStatus(s Status) *TextMetric { m.meta.status = s; return m }
func (m *TextMetric) WithImportance(i Importance) *TextMetric {
	m.meta.importance = i
	return m
}
func (m *TextMetric) WithText(t string) *TextMetric { m.text = t; return m }

func (m *TextMetric) toProto() *binproto.Metric {
	p := m.meta.toProto(binproto.TypeText)
	p.Text = &binproto.TextValues{Text: m.text}
	return p
}

func (m *TextMetric) series() []*SeriesData { return nil }

// PlotlyMetric carries a serialized plotly figure.
type PlotlyMetric struct {
	meta       metricMeta
	plotlyData string
}

// AddPlotlyMetric starts a plotly metric builder.
func (w *Writer) AddPlotlyMetric(name string) *PlotlyMetric {
	m := &PlotlyMetric{meta: newMeta(name)}
	w.register(name, m)
	return m
}

func (m *PlotlyMetric) WithDescription(d string) *PlotlyMetric { m.meta.description = d; return m }
func (m *PlotlyMetric) WithStatus(s Status) *PlotlyMetric { m.meta.status = s; return m }
func (m *PlotlyMetric) WithImportance(i Importance) *PlotlyMetric {
	m.meta.importance = i
	return m
}
func (m *PlotlyMetric) WithPlotlyData(data string) *PlotlyMetric { m.plotlyData = data; return m }

func (m *PlotlyMetric) toProto() *binproto.Metric {
	p := m.meta.toProto(binproto.TypePlotly)
	p.Plotly = &binproto.PlotlyValues{PlotlyData: m.plotlyData}
	return p
}

func (m *PlotlyMetric) series() []*SeriesData { return nil }

func seriesNames(data []*SeriesData) []string {
	names := make([]string, 0, len(data))
	for _, sd := range data {
		names = append(names, sd.Name)
	}
	return names
}
