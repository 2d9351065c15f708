package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightSampleTime(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		wantUnix  int64
		wantErr   bool
	}{
		{name: "plain ISO", timestamp: "2024-03-18T10:00:05", wantUnix: time.Date(2024, 3, 18, 10, 0, 5, 0, time.UTC).Unix()},
		{name: "zulu suffix", timestamp: "2024-03-18T10:00:05Z", wantUnix: time.Date(2024, 3, 18, 10, 0, 5, 0, time.UTC).Unix()},
		{name: "explicit offset", timestamp: "2024-03-18T10:00:05+02:00", wantUnix: time.Date(2024, 3, 18, 8, 0, 5, 0, time.UTC).Unix()},
		{name: "garbage", timestamp: "yesterday", wantErr: true},
		{name: "empty", timestamp: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := FlightSample{Timestamp: tt.timestamp}
			got, err := sample.Time()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUnix, got.Unix())
		})
	}
}

func TestFlightSampleStatusChecks(t *testing.T) {
	assert.True(t, FlightSample{Status: "Error"}.IsError())
	assert.False(t, FlightSample{Status: "error"}.IsError(), "error matching is exact")
	assert.True(t, FlightSample{Status: "Warning"}.IsWarning())
	assert.True(t, FlightSample{Status: "warning"}.IsWarning(), "warning matching ignores case")
	assert.False(t, FlightSample{Status: "OK"}.IsError())
	assert.False(t, FlightSample{Status: "OK"}.IsWarning())
}

func TestFlightRecordValidate(t *testing.T) {
	record := &FlightRecord{}
	assert.Error(t, record.Validate(), "no samples")

	record.Samples = []FlightSample{{Timestamp: ""}}
	assert.Error(t, record.Validate(), "missing timestamp")

	record.Samples = []FlightSample{{Timestamp: "2024-03-18T10:00:00"}}
	assert.NoError(t, record.Validate())
}

func TestFlightRecordStates(t *testing.T) {
	record := &FlightRecord{Samples: []FlightSample{
		{State: "Idle"},
		{State: "Takeoff"},
		{State: "Idle"},
		{State: "Moving"},
		{State: "Takeoff"},
	}}

	assert.Equal(t, []string{"Idle", "Takeoff", "Moving"}, record.States())
}
