package util

import (
	"os"
	"path/filepath"
)

// Paths resolves the fixed file layout of the simulation harness under a
// single base directory (conventionally /tmp/resim).
type Paths struct {
	Base string
}

func NewPaths(base string) Paths {
	return Paths{Base: base}
}

func (p Paths) InputsDir() string {
	return filepath.Join(p.Base, "inputs")
}

func (p Paths) LogsDir() string {
	return filepath.Join(p.InputsDir(), "logs")
}

func (p Paths) OutputsDir() string {
	return filepath.Join(p.Base, "outputs")
}

// ValueLog is the plain "timestamp,value" log written by the build side.
func (p Paths) ValueLog() string {
	return filepath.Join(p.LogsDir(), "test.log")
}

// FlightLog is the raw flight record consumed by the simulation run.
func (p Paths) FlightLog() string {
	return filepath.Join(p.InputsDir(), "flight_log.json")
}

// ProcessedFlightLog is the flight record forwarded by the simulation run
// into the metrics stage's input layout.
func (p Paths) ProcessedFlightLog() string {
	return filepath.Join(p.OutputsDir(), "processed_flight_log.json")
}

// InputFlightLog resolves a flight log filename under the metrics input
// log directory.
func (p Paths) InputFlightLog(filename string) string {
	return filepath.Join(p.LogsDir(), filename)
}

// BatchConfig is the batch metrics configuration; its presence switches
// the metrics stage into batch mode.
func (p Paths) BatchConfig() string {
	return filepath.Join(p.InputsDir(), "batch_metrics_config.json")
}

// MetricsOut is the serialized metrics artifact.
func (p Paths) MetricsOut() string {
	return filepath.Join(p.OutputsDir(), "metrics.binproto")
}

// ExpandPath expands a leading ~/ and makes the path absolute.
func ExpandPath(path string) string {
	if len(path) > 1 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

// EnsureDir creates a directory and its parents if missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
