// Package generator synthesizes the fixture inputs consumed by
// simulation runs: a random value log and a scripted drone flight.
package generator

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/skyhaven/go-flight-metrics/internal/core/model"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

const valueLogLayout = "2006-01-02 15:04:05"

// fixtureStart anchors the scripted flight so repeated runs produce
// identical files.
var fixtureStart = time.Date(2024, 3, 18, 10, 0, 0, 0, time.UTC)

// WriteValueLog writes count random values in [0, 100) as
// "<timestamp>,<value>" lines, one second apart. A nil rng falls back
// to the shared source.
func WriteValueLog(path string, count int, rng *rand.Rand) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	next := func() float64 { return rand.Float64() * 100 }
	if rng != nil {
		next = func() float64 { return rng.Float64() * 100 }
	}

	var sb strings.Builder
	start := time.Now()
	for i := 0; i < count; i++ {
		ts := start.Add(time.Duration(i) * time.Second)
		fmt.Fprintf(&sb, "%s,%v\n", ts.Format(valueLogLayout), next())
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write value log: %w", err)
	}
	util.LogInfof("Wrote %d values to %s", count, path)
	return nil
}

// FlightFixture builds the scripted square-circuit drone flight: idle,
// climb to 10m, fly a 10m square with a two-sample warning on the
// second leg, descend, and idle again.
func FlightFixture() *model.FlightRecord {
	record := &model.FlightRecord{
		Metadata: model.Metadata{
			Units: model.Units{
				Speed:    "m/s",
				Position: model.PositionUnits{X: "m", Y: "m", Z: "m"},
				Time:     "s",
			},
		},
	}

	sec := 0
	add := func(speed float64, state, status string, x, y, z float64) {
		record.Samples = append(record.Samples, model.FlightSample{
			Timestamp: fixtureStart.Add(time.Duration(sec) * time.Second).Format("2006-01-02T15:04:05"),
			Speed:     speed,
			State:     state,
			Status:    status,
			Position:  model.Position{X: x, Y: y, Z: z},
		})
		sec++
	}

	// Initial idle.
	for i := 0; i < 3; i++ {
		add(0, "Idle", model.StatusOK, 0, 0, 0)
	}
	// Takeoff to 10m.
	for z := 2.0; z <= 10; z += 2 {
		add(2, "Takeoff", model.StatusOK, 0, 0, z)
	}
	// Hover at altitude.
	for i := 0; i < 3; i++ {
		add(0, "Hovering", model.StatusOK, 0, 0, 10)
	}
	// Forward leg.
	for x := 2.0; x <= 10; x += 2 {
		add(2, "Moving", model.StatusOK, x, 0, 10)
	}
	// Right leg, with a transient warning mid-leg.
	for y := 2.0; y <= 10; y += 2 {
		status := model.StatusOK
		if y == 6 || y == 8 {
			status = model.StatusWarning
		}
		add(2, "Moving", status, 10, y, 10)
	}
	// Back leg.
	for x := 8.0; x >= 0; x -= 2 {
		add(2, "Moving", model.StatusOK, x, 10, 10)
	}
	// Left leg closes the square.
	for y := 8.0; y >= 0; y -= 2 {
		add(2, "Moving", model.StatusOK, 0, y, 10)
	}
	// Hover before descent.
	for i := 0; i < 3; i++ {
		add(0, "Hovering", model.StatusOK, 0, 0, 10)
	}
	// Descent.
	for z := 8.0; z >= 0; z -= 2 {
		add(2, "Landing", model.StatusOK, 0, 0, z)
	}
	// Final idle.
	for i := 0; i < 2; i++ {
		add(0, "Idle", model.StatusOK, 0, 0, 0)
	}

	return record
}

// WriteFlightLog serializes a flight record as indented JSON at path.
func WriteFlightLog(path string, record *model.FlightRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create input directory: %w", err)
	}
	data, err := sonic.ConfigDefault.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode flight record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write flight log: %w", err)
	}
	util.LogInfof("Wrote flight log with %d samples to %s", len(record.Samples), path)
	return nil
}
