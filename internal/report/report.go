// Package report assembles the metrics for single runs and batches.
package report

import (
	"fmt"
	"sort"
	"time"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/bytedance/sonic"

	"github.com/skyhaven/go-flight-metrics/internal/core/model"
	"github.com/skyhaven/go-flight-metrics/internal/data/aggregator"
	"github.com/skyhaven/go-flight-metrics/internal/metrics"
	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
	"github.com/skyhaven/go-flight-metrics/internal/plot"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

// flightSeries is the flight record unpacked into parallel columns.
type flightSeries struct {
	times     []time.Time
	seconds   []float64
	speeds    []float64
	xs        []float64
	ys        []float64
	altitudes []float64
	states    []string
}

func extractSeries(record *model.FlightRecord) (*flightSeries, error) {
	fs := &flightSeries{}
	var start time.Time
	for i, sample := range record.Samples {
		t, err := sample.Time()
		if err != nil {
			return nil, err
		}
		if i == 0 {
			start = t
		}
		fs.times = append(fs.times, t)
		fs.seconds = append(fs.seconds, t.Sub(start).Seconds())
		fs.speeds = append(fs.speeds, sample.Speed)
		fs.xs = append(fs.xs, sample.Position.X)
		fs.ys = append(fs.ys, sample.Position.Y)
		fs.altitudes = append(fs.altitudes, sample.Position.Z)
		fs.states = append(fs.states, sample.State)
	}
	return fs, nil
}

// BuildFlightMetrics adds the full single-run metric set for one flight
// to the writer.
func BuildFlightMetrics(w *metrics.Writer, record *model.FlightRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	fs, err := extractSeries(record)
	if err != nil {
		return err
	}

	maxSpeed, err := aggregator.MaxSpeed(record)
	if err != nil {
		return err
	}
	overall := aggregator.OverallStatus(record)
	sampleStatuses := aggregator.SampleStatuses(record)
	stateSet := record.States()

	wireTimes := make([]metrics.Timestamp, len(fs.times))
	for i, t := range fs.times {
		wireTimes[i] = metrics.NewTimestamp(t)
	}
	timeSeries := &metrics.SeriesData{Name: "Flight Time", Unit: "s", Timestamps: wireTimes}
	speedSeries := &metrics.SeriesData{Name: "Speed", Unit: "m/s", Doubles: fs.speeds, Index: timeSeries}
	statusSeries := &metrics.SeriesData{Name: "Sample Statuses", Statuses: sampleStatuses, Index: timeSeries}
	stateSeries := &metrics.SeriesData{Name: "Flight States", Strings: fs.states, Index: timeSeries}
	secondsSeries := &metrics.SeriesData{Name: "Elapsed Time", Unit: "s", Doubles: fs.seconds}
	xPosSeries := &metrics.SeriesData{Name: "X Position", Unit: "m", Doubles: fs.xs, Index: secondsSeries}

	w.AddScalarMetric("Maximum Speed").
		WithDescription("Maximum speed achieved during flight").
		WithImportance(metrics.ImportanceHigh).
		WithValue(maxSpeed).
		WithUnit("m/s").
		WithStatus(metrics.StatusPassed)

	w.AddDoubleOverTimeMetric("Speed Over Time").
		WithDescription("Speed measurements over time with status from flight data").
		WithImportance(metrics.ImportanceHigh).
		WithStatus(overall).
		WithYAxisName("Speed (m/s)").
		WithDoublesOverTimeData([]*metrics.SeriesData{speedSeries}).
		WithStatusesOverTimeData([]*metrics.SeriesData{statusSeries}).
		WithFailureDefinitions([]metrics.FailureDefinition{{FailsBelow: 0, FailsAbove: 100}})

	altitudeFig, err := plot.ToJSON(plot.AltitudeOverTime(fs.seconds, fs.altitudes))
	if err != nil {
		return err
	}
	w.AddPlotlyMetric("Altitude Over Time").
		WithDescription("Altitude measurements over time with status from flight data").
		WithImportance(metrics.ImportanceMedium).
		WithStatus(overall).
		WithPlotlyData(altitudeFig)

	w.AddStatesOverTimeMetric("Flight States Over Time").
		WithDescription("Flight state transitions over time").
		WithImportance(metrics.ImportanceHigh).
		WithStatus(metrics.StatusPassed).
		WithStatesOverTimeData([]*metrics.SeriesData{stateSeries}).
		WithStatusesOverTimeData([]*metrics.SeriesData{statusSeries}).
		WithStatesSet(stateSet).
		WithLegendSeriesNames([]string{"State"})

	w.AddLinePlotMetric("X Position Over Time").
		WithDescription("X-axis position over time").
		WithImportance(metrics.ImportanceHigh).
		WithStatus(metrics.StatusPassed).
		WithXAxisName("Time (s)").
		WithYAxisName("X Position (m)").
		WithXDoublesData([]*metrics.SeriesData{secondsSeries}).
		WithYDoublesData([]*metrics.SeriesData{xPosSeries}).
		WithStatusesData([]*metrics.SeriesData{metrics.RepeatStatus(
			"X Position Statuses", metrics.StatusPassed, len(fs.xs), secondsSeries)}).
		WithLegendSeriesNames([]string{"X Position"})

	w.AddHistogramMetric("Speed Distribution").
		WithDescription("Distribution of speeds during flight").
		WithImportance(metrics.ImportanceMedium).
		WithStatus(metrics.StatusPassed).
		WithValuesData(speedSeries).
		WithStatusesData(statusSeries).
		WithBuckets(aggregator.SpeedBuckets(maxSpeed)).
		WithLowerBound(0).
		WithUpperBound(maxSpeed)

	pathFig, err := plot.ToJSON(plot.FlightPath3D(fs.xs, fs.ys, fs.altitudes, fs.states, stateSet))
	if err != nil {
		return err
	}
	w.AddPlotlyMetric("3D Flight Path").
		WithDescription("Interactive 3D visualization of the flight path").
		WithImportance(metrics.ImportanceHigh).
		WithStatus(metrics.StatusPassed).
		WithPlotlyData(pathFig)

	summary, err := aggregator.FlightSummary(record)
	if err != nil {
		return err
	}
	w.AddTextMetric("Flight Summary").
		WithDescription("Summary of the flight data").
		WithImportance(metrics.ImportanceMedium).
		WithStatus(metrics.StatusPassed).
		WithText(summary)

	return nil
}

// BuildFlightFigureMetrics adds the all-figure variant of the single-run
// metric set: the same metrics as BuildFlightMetrics, but every time
// series is embedded as a plotly figure instead of series-backed data.
func BuildFlightFigureMetrics(w *metrics.Writer, record *model.FlightRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	fs, err := extractSeries(record)
	if err != nil {
		return err
	}

	maxSpeed, err := aggregator.MaxSpeed(record)
	if err != nil {
		return err
	}
	overall := aggregator.OverallStatus(record)
	stateSet := record.States()

	w.AddScalarMetric("Maximum Speed").
		WithDescription("Maximum speed achieved during flight").
		WithImportance(metrics.ImportanceHigh).
		WithValue(maxSpeed).
		WithUnit("m/s").
		WithStatus(metrics.StatusPassed)

	addFigure := func(name, description string, importance metrics.Importance, status metrics.Status, fig *grob.Fig) error {
		data, err := plot.ToJSON(fig)
		if err != nil {
			return err
		}
		w.AddPlotlyMetric(name).
			WithDescription(description).
			WithImportance(importance).
			WithStatus(status).
			WithPlotlyData(data)
		return nil
	}

	figures := []struct {
		name        string
		description string
		importance  metrics.Importance
		status      metrics.Status
		fig         *grob.Fig
	}{
		{"Speed Over Time", "Speed measurements over time with status from flight data",
			metrics.ImportanceHigh, overall, plot.SpeedOverTime(fs.times, fs.speeds)},
		{"Altitude Over Time", "Altitude measurements over time with status from flight data",
			metrics.ImportanceMedium, overall, plot.AltitudeOverTime(fs.seconds, fs.altitudes)},
		{"Flight States Over Time", "Flight state transitions over time",
			metrics.ImportanceHigh, metrics.StatusPassed, plot.StatesOverTime(fs.times, fs.states, stateSet)},
		{"X Position Over Time", "X-axis position over time",
			metrics.ImportanceHigh, metrics.StatusPassed, plot.XPositionOverTime(fs.seconds, fs.xs)},
		{"Speed Distribution", "Distribution of speeds during flight",
			metrics.ImportanceMedium, metrics.StatusPassed, plot.SpeedDistribution(fs.speeds)},
		{"3D Flight Path", "Interactive 3D visualization of the flight path",
			metrics.ImportanceHigh, metrics.StatusPassed, plot.FlightPath3D(fs.xs, fs.ys, fs.altitudes, fs.states, stateSet)},
	}
	for _, f := range figures {
		if err := addFigure(f.name, f.description, f.importance, f.status, f.fig); err != nil {
			return err
		}
	}

	summary, err := aggregator.FlightSummary(record)
	if err != nil {
		return err
	}
	w.AddTextMetric("Flight Summary").
		WithDescription("Summary of the flight data").
		WithImportance(metrics.ImportanceMedium).
		WithStatus(metrics.StatusPassed).
		WithText(summary)

	return nil
}

// BuildScalarMetric adds the single value-log scalar: the last recorded
// value graded against the [0, 100] generation range.
func BuildScalarMetric(w *metrics.Writer, value float64) {
	w.AddScalarMetric("Last Recorded Value").
		WithDescription("Final value from the generated test log").
		WithImportance(metrics.ImportanceHigh).
		WithValue(value).
		WithStatus(metrics.StatusPassed).
		WithFailureDefinition(metrics.FailureDefinition{FailsBelow: 0, FailsAbove: 100}).
		WithBlocking(false).
		WithShouldDisplay(true)
}

// BuildBatchMetrics adds the batch-level metric set derived from every
// job's metrics.
func BuildBatchMetrics(w *metrics.Writer, jobs map[string]*binproto.JobMetrics) error {
	stats := aggregator.Collect(jobs)

	if highest, ok := stats.Highest(); ok {
		w.AddScalarMetric("Highest Recorded Speed").
			WithDescription("Maximum speed achieved across all flights").
			WithImportance(metrics.ImportanceHigh).
			WithValue(highest).
			WithUnit("m/s").
			WithStatus(metrics.StatusPassed)
	}

	if average, ok := stats.Average(); ok {
		w.AddScalarMetric("Average Max Speed").
			WithDescription("Average of maximum speeds across all flights").
			WithImportance(metrics.ImportanceHigh).
			WithValue(average).
			WithUnit("m/s").
			WithStatus(metrics.StatusPassed)
	} else {
		util.LogWarn("No job reported a maximum speed, skipping Average Max Speed")
	}

	rate := stats.SuccessRate()
	w.AddScalarMetric("Overall Success Rate").
		WithDescription("Percentage of successful flight states").
		WithImportance(metrics.ImportanceHigh).
		WithValue(rate).
		WithUnit("%").
		WithStatus(aggregator.SuccessRateStatus(rate))

	comparisonFig, err := plot.ToJSON(plot.AltitudeComparison(altitudeTraces(jobs)))
	if err != nil {
		return err
	}
	w.AddPlotlyMetric("Altitude Comparison").
		WithDescription("Comparison of altitude over time across different flights").
		WithImportance(metrics.ImportanceHigh).
		WithStatus(metrics.StatusPassed).
		WithPlotlyData(comparisonFig)

	w.AddTextMetric("Batch Summary").
		WithDescription("Summary of all flight data").
		WithImportance(metrics.ImportanceHigh).
		WithStatus(metrics.StatusPassed).
		WithText(aggregator.BatchSummary(stats))

	return nil
}

// altitudeTraces re-parses each job's Altitude Over Time figure into an
// overlay trace. Jobs without the metric are skipped.
func altitudeTraces(jobs map[string]*binproto.JobMetrics) []plot.ComparisonTrace {
	jobIDs := make([]string, 0, len(jobs))
	for id := range jobs {
		jobIDs = append(jobIDs, id)
	}
	sort.Strings(jobIDs)

	var traces []plot.ComparisonTrace
	for _, id := range jobIDs {
		m := jobs[id].FindMetric("Altitude Over Time")
		if m == nil || m.Plotly == nil || m.Plotly.PlotlyData == "" {
			util.LogDebugf("Job %s has no altitude metric, skipping in comparison", id)
			continue
		}
		seconds, values, err := firstTraceXY(m.Plotly.PlotlyData)
		if err != nil {
			util.LogWarnf("Job %s has an unreadable altitude figure: %v", id, err)
			continue
		}
		traces = append(traces, plot.ComparisonTrace{JobID: id, Seconds: seconds, Values: values})
	}
	return traces
}

func firstTraceXY(figJSON string) ([]float64, []float64, error) {
	var fig struct {
		Data []struct {
			X []float64 `json:"x"`
			Y []float64 `json:"y"`
		} `json:"data"`
	}
	if err := sonic.UnmarshalString(figJSON, &fig); err != nil {
		return nil, nil, err
	}
	if len(fig.Data) == 0 || len(fig.Data[0].X) == 0 {
		return nil, nil, fmt.Errorf("figure has no traces")
	}
	return fig.Data[0].X, fig.Data[0].Y, nil
}
