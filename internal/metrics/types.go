// Package metrics is the builder-pattern writer used to assemble a job's
// metrics and serialize them to the metrics.binproto artifact.
package metrics

import (
	"time"

	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
)

// Wire-level enums and value types are shared with the codec package.
type (
	Status            = binproto.MetricStatus
	Importance        = binproto.MetricImportance
	Timestamp         = binproto.Timestamp
	FailureDefinition = binproto.DoubleFailureDefinition
	HistogramBucket   = binproto.HistogramBucket
)

const (
	StatusUnspecified = binproto.StatusUnspecified
	StatusPassed      = binproto.StatusPassed
	StatusFailWarn    = binproto.StatusFailWarn
	StatusFailBlock   = binproto.StatusFailBlock

	ImportanceZero     = binproto.ImportanceZero
	ImportanceLow      = binproto.ImportanceLow
	ImportanceMedium   = binproto.ImportanceMedium
	ImportanceHigh     = binproto.ImportanceHigh
	ImportanceCritical = binproto.ImportanceCritical
)

// NewTimestamp converts a time.Time to a wire timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Secs: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// SeriesData is a named column of values referenced by the series-backed
// metric kinds. Exactly one of the value slices should be populated.
type SeriesData struct {
	Name       string
	Unit       string
	Index      *SeriesData
	Doubles    []float64
	Timestamps []Timestamp
	Strings    []string
	Statuses   []Status
}

// Len returns the number of values in the populated slice.
func (s *SeriesData) Len() int {
	switch {
	case len(s.Doubles) > 0:
		return len(s.Doubles)
	case len(s.Timestamps) > 0:
		return len(s.Timestamps)
	case len(s.Strings) > 0:
		return len(s.Strings)
	default:
		return len(s.Statuses)
	}
}

// RepeatStatus builds a status series of n identical entries.
func RepeatStatus(name string, status Status, n int, index *SeriesData) *SeriesData {
	statuses := make([]Status, n)
	for i := range statuses {
		statuses[i] = status
	}
	return &SeriesData{Name: name, Statuses: statuses, Index: index}
}

func (s *SeriesData) toProto() *binproto.SeriesData {
	sd := &binproto.SeriesData{
		Name:       s.Name,
		Unit:       s.Unit,
		Doubles:    s.Doubles,
		Timestamps: s.Timestamps,
		Strings:    s.Strings,
		Statuses:   s.Statuses,
	}
	if s.Index != nil {
		sd.IndexData = s.Index.Name
	}
	return sd
}
