package model

import (
	"fmt"
	"strings"
	"time"
)

// Sample status labels as they appear in flight logs.
const (
	StatusOK      = "OK"
	StatusWarning = "Warning"
	StatusError   = "Error"
)

// FlightRecord is a full flight telemetry log: unit metadata plus an
// ordered sequence of timestamped samples.
type FlightRecord struct {
	Metadata Metadata       `json:"metadata"`
	Samples  []FlightSample `json:"samples"`
}

type Metadata struct {
	Units Units `json:"units"`
}

type Units struct {
	Speed    string        `json:"speed"`
	Position PositionUnits `json:"position"`
	Time     string        `json:"time"`
}

type PositionUnits struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z"`
}

// FlightSample is a single telemetry sample.
type FlightSample struct {
	Timestamp string   `json:"timestamp"`
	Speed     float64  `json:"speed"`
	State     string   `json:"state"`
	Status    string   `json:"status"`
	Position  Position `json:"position"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Time parses the sample timestamp. Both plain ISO-8601 and the "Z"
// suffixed form occur in fixture logs.
func (s FlightSample) Time() (time.Time, error) {
	ts := strings.Replace(s.Timestamp, "Z", "+00:00", 1)
	if t, err := time.Parse("2006-01-02T15:04:05-07:00", ts); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sample timestamp %q: %w", s.Timestamp, err)
	}
	return t, nil
}

// IsError reports whether the sample carries an Error status.
func (s FlightSample) IsError() bool {
	return s.Status == StatusError
}

// IsWarning reports whether the sample carries a Warning status.
// Matched case-insensitively; some log producers emit "warning".
func (s FlightSample) IsWarning() bool {
	return strings.EqualFold(s.Status, StatusWarning)
}

// Validate checks the structural contract of a flight record.
func (r *FlightRecord) Validate() error {
	if len(r.Samples) == 0 {
		return fmt.Errorf("flight record contains no samples")
	}
	for i, s := range r.Samples {
		if s.Timestamp == "" {
			return fmt.Errorf("sample %d has no timestamp", i)
		}
	}
	return nil
}

// States returns the distinct state labels in sample order of first
// appearance.
func (r *FlightRecord) States() []string {
	seen := make(map[string]bool)
	var states []string
	for _, s := range r.Samples {
		if !seen[s.State] {
			seen[s.State] = true
			states = append(states, s.State)
		}
	}
	return states
}

// ValueSample is one line of a plain "timestamp,value" log.
type ValueSample struct {
	Timestamp time.Time
	Value     float64
}
