package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsLayout(t *testing.T) {
	p := NewPaths("/tmp/resim")

	assert.Equal(t, "/tmp/resim/inputs", p.InputsDir())
	assert.Equal(t, "/tmp/resim/inputs/logs", p.LogsDir())
	assert.Equal(t, "/tmp/resim/outputs", p.OutputsDir())
	assert.Equal(t, "/tmp/resim/inputs/logs/test.log", p.ValueLog())
	assert.Equal(t, "/tmp/resim/inputs/flight_log.json", p.FlightLog())
	assert.Equal(t, "/tmp/resim/outputs/processed_flight_log.json", p.ProcessedFlightLog())
	assert.Equal(t, "/tmp/resim/inputs/batch_metrics_config.json", p.BatchConfig())
	assert.Equal(t, "/tmp/resim/outputs/metrics.binproto", p.MetricsOut())
	assert.Equal(t, "/tmp/resim/inputs/logs/custom.json", p.InputFlightLog("custom.json"))
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs", "app.log"), ExpandPath("~/logs/app.log"))
}

func TestExpandPathAbsolute(t *testing.T) {
	assert.Equal(t, "/tmp/resim", ExpandPath("/tmp/resim"))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, EnsureDir(dir), "idempotent")
}
