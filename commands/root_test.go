package commands

import (
	"os"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyhaven/go-flight-metrics/internal/data/generator"
	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func readMetrics(t *testing.T, base string) *binproto.JobMetrics {
	t.Helper()
	data, err := os.ReadFile(util.NewPaths(base).MetricsOut())
	require.NoError(t, err)
	jm, err := binproto.Unmarshal(data)
	require.NoError(t, err)
	return jm
}

func TestGenflightSimrunMetricsPipeline(t *testing.T) {
	base := t.TempDir()

	require.NoError(t, runCommand(t, "genflight", "--base-dir", base))
	assert.FileExists(t, util.NewPaths(base).FlightLog())

	require.NoError(t, runCommand(t, "simrun", "--base-dir", base))
	assert.FileExists(t, util.NewPaths(base).ProcessedFlightLog())

	require.NoError(t, runCommand(t, "metrics", "--base-dir", base))

	jm := readMetrics(t, base)
	assert.Len(t, jm.Metrics, 8)
	assert.NotNil(t, jm.FindMetric("Maximum Speed"))
	assert.NotNil(t, jm.FindMetric("Flight Summary"))
}

func TestSimrunMissingInputReturnsCleanly(t *testing.T) {
	base := t.TempDir()

	assert.NoError(t, runCommand(t, "simrun", "--base-dir", base))
	assert.NoFileExists(t, util.NewPaths(base).ProcessedFlightLog())
}

func TestGenlogAndScalar(t *testing.T) {
	base := t.TempDir()

	require.NoError(t, runCommand(t, "genlog", "--count", "10", "--base-dir", base))
	assert.FileExists(t, util.NewPaths(base).ValueLog())

	require.NoError(t, runCommand(t, "scalar", "--base-dir", base))

	jm := readMetrics(t, base)
	m := jm.FindMetric("Last Recorded Value")
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.Scalar.Value, 0.0)
	assert.Less(t, m.Scalar.Value, 100.0)
}

func TestScalarMissingLogReturnsCleanly(t *testing.T) {
	base := t.TempDir()
	assert.NoError(t, runCommand(t, "scalar", "--base-dir", base))
}

func TestMetricsMissingInputFails(t *testing.T) {
	base := t.TempDir()
	assert.Error(t, runCommand(t, "metrics", "--base-dir", base))
}

func TestRootDispatchesToTestMetrics(t *testing.T) {
	base := t.TempDir()

	require.NoError(t, runCommand(t, "genflight", "--base-dir", base))
	require.NoError(t, runCommand(t, "simrun", "--base-dir", base))
	require.NoError(t, runCommand(t, "--base-dir", base))

	assert.Len(t, readMetrics(t, base).Metrics, 8)
}

func TestBatchLocalAggregatesInputFlights(t *testing.T) {
	base := t.TempDir()
	paths := util.NewPaths(base)
	require.NoError(t, generator.WriteFlightLog(paths.FlightLog(), generator.FlightFixture()))
	require.NoError(t, generator.WriteFlightLog(paths.InputFlightLog("second_flight.json"), generator.FlightFixture()))

	require.NoError(t, runCommand(t, "batch", "--local", "--base-dir", base))

	jm := readMetrics(t, base)
	assert.Len(t, jm.Metrics, 5)

	highest := jm.FindMetric("Highest Recorded Speed")
	require.NotNil(t, highest)
	assert.Equal(t, 2.0, highest.Scalar.Value)

	average := jm.FindMetric("Average Max Speed")
	require.NotNil(t, average)
	assert.Equal(t, 2.0, average.Scalar.Value)
}

func TestBatchLocalSkipsNonFlightInputs(t *testing.T) {
	base := t.TempDir()
	paths := util.NewPaths(base)
	require.NoError(t, generator.WriteFlightLog(paths.FlightLog(), generator.FlightFixture()))
	require.NoError(t, generator.WriteValueLog(paths.ValueLog(), 5, nil))

	require.NoError(t, runCommand(t, "batch", "--local", "--base-dir", base))

	jm := readMetrics(t, base)
	var fig struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	comparison := jm.FindMetric("Altitude Comparison")
	require.NotNil(t, comparison)
	require.NoError(t, sonic.UnmarshalString(comparison.Plotly.PlotlyData, &fig))
	require.Len(t, fig.Data, 1, "the value log is not a flight run")
	assert.Equal(t, "Flight flight_log", fig.Data[0].Name)
}

func TestMetricsFiguresVariant(t *testing.T) {
	base := t.TempDir()

	require.NoError(t, runCommand(t, "genflight", "--base-dir", base))
	require.NoError(t, runCommand(t, "simrun", "--base-dir", base))
	require.NoError(t, runCommand(t, "metrics", "--figures", "--base-dir", base))

	jm := readMetrics(t, base)
	require.Len(t, jm.Metrics, 8)
	assert.Empty(t, jm.MetricsData, "figures carry their own data")

	m := jm.FindMetric("Speed Over Time")
	require.NotNil(t, m)
	assert.Equal(t, binproto.TypePlotly, m.Type)
}
