package binproto

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Marshal serializes a JobMetrics message to the binproto wire format.
func Marshal(jm *JobMetrics) []byte {
	var b []byte
	if jm.JobID != "" {
		b = appendString(b, 1, jm.JobID)
	}
	for _, m := range jm.Metrics {
		b = appendMessage(b, 2, marshalMetric(m))
	}
	for _, sd := range jm.MetricsData {
		b = appendMessage(b, 3, marshalSeriesData(sd))
	}
	return b
}

func marshalMetric(m *Metric) []byte {
	var b []byte
	if m.Name != "" {
		b = appendString(b, 1, m.Name)
	}
	if m.Type != TypeUnspecified {
		b = appendVarint(b, 2, uint64(m.Type))
	}
	if m.Description != "" {
		b = appendString(b, 3, m.Description)
	}
	if m.Status != StatusUnspecified {
		b = appendVarint(b, 4, uint64(m.Status))
	}
	if m.Importance != ImportanceZero {
		b = appendVarint(b, 5, uint64(m.Importance))
	}
	if m.Blocking {
		b = appendVarint(b, 6, 1)
	}
	if m.ShouldDisplay {
		b = appendVarint(b, 7, 1)
	}
	switch {
	case m.Scalar != nil:
		b = appendMessage(b, 8, marshalScalar(m.Scalar))
	case m.DoubleOverTime != nil:
		b = appendMessage(b, 9, marshalDoubleOverTime(m.DoubleOverTime))
	case m.StatesOverTime != nil:
		b = appendMessage(b, 10, marshalStatesOverTime(m.StatesOverTime))
	case m.LinePlot != nil:
		b = appendMessage(b, 11, marshalLinePlot(m.LinePlot))
	case m.Histogram != nil:
		b = appendMessage(b, 12, marshalHistogram(m.Histogram))
	case m.Text != nil:
		b = appendMessage(b, 13, appendString(nil, 1, m.Text.Text))
	case m.Plotly != nil:
		b = appendMessage(b, 14, appendString(nil, 1, m.Plotly.PlotlyData))
	}
	return b
}

func marshalFailureDefinition(fd *DoubleFailureDefinition) []byte {
	var b []byte
	if fd.FailsBelow != 0 {
		b = appendDouble(b, 1, fd.FailsBelow)
	}
	if fd.FailsAbove != 0 {
		b = appendDouble(b, 2, fd.FailsAbove)
	}
	return b
}

func marshalScalar(v *ScalarValues) []byte {
	var b []byte
	if v.Value != 0 {
		b = appendDouble(b, 1, v.Value)
	}
	if v.Unit != "" {
		b = appendString(b, 2, v.Unit)
	}
	if v.FailureDefinition != nil {
		b = appendMessage(b, 3, marshalFailureDefinition(v.FailureDefinition))
	}
	return b
}

func marshalDoubleOverTime(v *DoubleOverTimeValues) []byte {
	var b []byte
	b = appendStrings(b, 1, v.DoublesData)
	b = appendStrings(b, 2, v.StatusesData)
	if v.YAxisName != "" {
		b = appendString(b, 3, v.YAxisName)
	}
	for i := range v.FailureDefinitions {
		b = appendMessage(b, 4, marshalFailureDefinition(&v.FailureDefinitions[i]))
	}
	return b
}

func marshalStatesOverTime(v *StatesOverTimeValues) []byte {
	var b []byte
	b = appendStrings(b, 1, v.StatesData)
	b = appendStrings(b, 2, v.StatusesData)
	b = appendStrings(b, 3, v.StatesSet)
	b = appendStrings(b, 4, v.FailureStates)
	b = appendStrings(b, 5, v.LegendSeriesNames)
	return b
}

func marshalLinePlot(v *LinePlotValues) []byte {
	var b []byte
	b = appendStrings(b, 1, v.XDoublesData)
	b = appendStrings(b, 2, v.YDoublesData)
	b = appendStrings(b, 3, v.StatusesData)
	if v.XAxisName != "" {
		b = appendString(b, 4, v.XAxisName)
	}
	if v.YAxisName != "" {
		b = appendString(b, 5, v.YAxisName)
	}
	b = appendStrings(b, 6, v.LegendSeriesNames)
	return b
}

func marshalHistogram(v *HistogramValues) []byte {
	var b []byte
	if v.ValuesData != "" {
		b = appendString(b, 1, v.ValuesData)
	}
	if v.StatusesData != "" {
		b = appendString(b, 2, v.StatusesData)
	}
	for _, bucket := range v.Buckets {
		var bb []byte
		if bucket.Lower != 0 {
			bb = appendDouble(bb, 1, bucket.Lower)
		}
		if bucket.Upper != 0 {
			bb = appendDouble(bb, 2, bucket.Upper)
		}
		b = appendMessage(b, 3, bb)
	}
	if v.LowerBound != 0 {
		b = appendDouble(b, 4, v.LowerBound)
	}
	if v.UpperBound != 0 {
		b = appendDouble(b, 5, v.UpperBound)
	}
	return b
}

func marshalSeriesData(sd *SeriesData) []byte {
	var b []byte
	if sd.Name != "" {
		b = appendString(b, 1, sd.Name)
	}
	if sd.Unit != "" {
		b = appendString(b, 2, sd.Unit)
	}
	if sd.IndexData != "" {
		b = appendString(b, 3, sd.IndexData)
	}
	if len(sd.Doubles) > 0 {
		// packed doubles
		var packed []byte
		for _, d := range sd.Doubles {
			packed = protowire.AppendFixed64(packed, math.Float64bits(d))
		}
		b = appendMessage(b, 4, packed)
	}
	for _, ts := range sd.Timestamps {
		var tb []byte
		if ts.Secs != 0 {
			tb = appendVarint(tb, 1, uint64(ts.Secs))
		}
		if ts.Nanos != 0 {
			tb = appendVarint(tb, 2, uint64(ts.Nanos))
		}
		b = appendMessage(b, 5, tb)
	}
	b = appendStrings(b, 6, sd.Strings)
	if len(sd.Statuses) > 0 {
		// packed enum varints
		var packed []byte
		for _, s := range sd.Statuses {
			packed = protowire.AppendVarint(packed, uint64(s))
		}
		b = appendMessage(b, 7, packed)
	}
	return b
}

// Low-level append helpers.

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendStrings(b []byte, num protowire.Number, ss []string) []byte {
	for _, s := range ss {
		b = appendString(b, num, s)
	}
	return b
}

// appendMessage writes a length-delimited field, including empty ones, so
// that present-but-zero submessages survive a round trip.
func appendMessage(b []byte, num protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}
