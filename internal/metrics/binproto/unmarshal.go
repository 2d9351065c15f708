package binproto

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Unmarshal parses a JobMetrics message from the binproto wire format.
// Unknown fields are skipped so newer artifacts remain readable.
func Unmarshal(b []byte) (*JobMetrics, error) {
	jm := &JobMetrics{}
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, v []byte, u uint64) error {
		switch num {
		case 1:
			jm.JobID = string(v)
		case 2:
			m, err := unmarshalMetric(v)
			if err != nil {
				return err
			}
			jm.Metrics = append(jm.Metrics, m)
		case 3:
			sd, err := unmarshalSeriesData(v)
			if err != nil {
				return err
			}
			jm.MetricsData = append(jm.MetricsData, sd)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode job metrics: %w", err)
	}
	return jm, nil
}

func unmarshalMetric(b []byte) (*Metric, error) {
	m := &Metric{}
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, v []byte, u uint64) error {
		var err error
		switch num {
		case 1:
			m.Name = string(v)
		case 2:
			m.Type = MetricType(u)
		case 3:
			m.Description = string(v)
		case 4:
			m.Status = MetricStatus(u)
		case 5:
			m.Importance = MetricImportance(u)
		case 6:
			m.Blocking = u != 0
		case 7:
			m.ShouldDisplay = u != 0
		case 8:
			m.Scalar, err = unmarshalScalar(v)
		case 9:
			m.DoubleOverTime, err = unmarshalDoubleOverTime(v)
		case 10:
			m.StatesOverTime, err = unmarshalStatesOverTime(v)
		case 11:
			m.LinePlot, err = unmarshalLinePlot(v)
		case 12:
			m.Histogram, err = unmarshalHistogram(v)
		case 13:
			m.Text = &TextValues{}
			err = walkFields(v, func(n protowire.Number, _ protowire.Type, fv []byte, _ uint64) error {
				if n == 1 {
					m.Text.Text = string(fv)
				}
				return nil
			})
		case 14:
			m.Plotly = &PlotlyValues{}
			err = walkFields(v, func(n protowire.Number, _ protowire.Type, fv []byte, _ uint64) error {
				if n == 1 {
					m.Plotly.PlotlyData = string(fv)
				}
				return nil
			})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func unmarshalFailureDefinition(b []byte) (DoubleFailureDefinition, error) {
	var fd DoubleFailureDefinition
	err := walkFields(b, func(num protowire.Number, _ protowire.Type, _ []byte, u uint64) error {
		switch num {
		case 1:
			fd.FailsBelow = math.Float64frombits(u)
		case 2:
			fd.FailsAbove = math.Float64frombits(u)
		}
		return nil
	})
	return fd, err
}

func unmarshalScalar(b []byte) (*ScalarValues, error) {
	v := &ScalarValues{}
	err := walkFields(b, func(num protowire.Number, _ protowire.Type, fv []byte, u uint64) error {
		switch num {
		case 1:
			v.Value = math.Float64frombits(u)
		case 2:
			v.Unit = string(fv)
		case 3:
			fd, err := unmarshalFailureDefinition(fv)
			if err != nil {
				return err
			}
			v.FailureDefinition = &fd
		}
		return nil
	})
	return v, err
}

func unmarshalDoubleOverTime(b []byte) (*DoubleOverTimeValues, error) {
	v := &DoubleOverTimeValues{}
	err := walkFields(b, func(num protowire.Number, _ protowire.Type, fv []byte, u uint64) error {
		switch num {
		case 1:
			v.DoublesData = append(v.DoublesData, string(fv))
		case 2:
			v.StatusesData = append(v.StatusesData, string(fv))
		case 3:
			v.YAxisName = string(fv)
		case 4:
			fd, err := unmarshalFailureDefinition(fv)
			if err != nil {
				return err
			}
			v.FailureDefinitions = append(v.FailureDefinitions, fd)
		}
		return nil
	})
	return v, err
}

func unmarshalStatesOverTime(b []byte) (*StatesOverTimeValues, error) {
	v := &StatesOverTimeValues{}
	err := walkFields(b, func(num protowire.Number, _ protowire.Type, fv []byte, _ uint64) error {
		switch num {
		case 1:
			v.StatesData = append(v.StatesData, string(fv))
		case 2:
			v.StatusesData = append(v.StatusesData, string(fv))
		case 3:
			v.StatesSet = append(v.StatesSet, string(fv))
		case 4:
			v.FailureStates = append(v.FailureStates, string(fv))
		case 5:
			v.LegendSeriesNames = append(v.LegendSeriesNames, string(fv))
		}
		return nil
	})
	return v, err
}

func unmarshalLinePlot(b []byte) (*LinePlotValues, error) {
	v := &LinePlotValues{}
	err := walkFields(b, func(num protowire.Number, _ protowire.Type, fv []byte, _ uint64) error {
		switch num {
		case 1:
			v.XDoublesData = append(v.XDoublesData, string(fv))
		case 2:
			v.YDoublesData = append(v.YDoublesData, string(fv))
		case 3:
			v.StatusesData = append(v.StatusesData, string(fv))
		case 4:
			v.XAxisName = string(fv)
		case 5:
			v.YAxisName = string(fv)
		case 6:
			v.LegendSeriesNames = append(v.LegendSeriesNames, string(fv))
		}
		return nil
	})
	return v, err
}

func unmarshalHistogram(b []byte) (*HistogramValues, error) {
	v := &HistogramValues{}
	err := walkFields(b, func(num protowire.Number, _ protowire.Type, fv []byte, u uint64) error {
		switch num {
		case 1:
			v.ValuesData = string(fv)
		case 2:
			v.StatusesData = string(fv)
		case 3:
			var bucket HistogramBucket
			err := walkFields(fv, func(n protowire.Number, _ protowire.Type, _ []byte, bu uint64) error {
				switch n {
				case 1:
					bucket.Lower = math.Float64frombits(bu)
				case 2:
					bucket.Upper = math.Float64frombits(bu)
				}
				return nil
			})
			if err != nil {
				return err
			}
			v.Buckets = append(v.Buckets, bucket)
		case 4:
			v.LowerBound = math.Float64frombits(u)
		case 5:
			v.UpperBound = math.Float64frombits(u)
		}
		return nil
	})
	return v, err
}

func unmarshalSeriesData(b []byte) (*SeriesData, error) {
	sd := &SeriesData{}
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, fv []byte, u uint64) error {
		switch num {
		case 1:
			sd.Name = string(fv)
		case 2:
			sd.Unit = string(fv)
		case 3:
			sd.IndexData = string(fv)
		case 4:
			// packed doubles
			for len(fv) >= 8 {
				bits, n := protowire.ConsumeFixed64(fv)
				if n < 0 {
					return protowire.ParseError(n)
				}
				sd.Doubles = append(sd.Doubles, math.Float64frombits(bits))
				fv = fv[n:]
			}
		case 5:
			var ts Timestamp
			err := walkFields(fv, func(n protowire.Number, _ protowire.Type, _ []byte, tu uint64) error {
				switch n {
				case 1:
					ts.Secs = int64(tu)
				case 2:
					ts.Nanos = int32(tu)
				}
				return nil
			})
			if err != nil {
				return err
			}
			sd.Timestamps = append(sd.Timestamps, ts)
		case 6:
			sd.Strings = append(sd.Strings, string(fv))
		case 7:
			// packed enum varints
			for len(fv) > 0 {
				s, n := protowire.ConsumeVarint(fv)
				if n < 0 {
					return protowire.ParseError(n)
				}
				sd.Statuses = append(sd.Statuses, MetricStatus(s))
				fv = fv[n:]
			}
		}
		return nil
	})
	return sd, err
}

// walkFields iterates the fields of a wire-format message. Length-delimited
// values arrive in v; varint and fixed64 values arrive in u. Groups and
// unknown field types are rejected, unknown field numbers are skipped by
// the callers' switch statements.
func walkFields(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte, u uint64) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		var v []byte
		var u uint64
		switch typ {
		case protowire.VarintType:
			u, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			u, n = protowire.ConsumeFixed64(b)
		case protowire.Fixed32Type:
			var u32 uint64
			u32, n = consumeFixed32(b)
			u = u32
		case protowire.BytesType:
			v, n = protowire.ConsumeBytes(b)
		default:
			return fmt.Errorf("unsupported wire type %v for field %d", typ, num)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(num, typ, v, u); err != nil {
			return err
		}
	}
	return nil
}

func consumeFixed32(b []byte) (uint64, int) {
	v, n := protowire.ConsumeFixed32(b)
	return uint64(v), n
}
