// Package plot builds the plotly figures embedded in plotly metrics.
package plot

import (
	"fmt"
	"time"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/bytedance/sonic"
)

// comparisonPalette cycles across flights in the batch altitude overlay.
var comparisonPalette = []string{
	"#636efa", "#EF553B", "#00cc96", "#ab63fa",
	"#FFA15A", "#19d3f3", "#FF6692", "#B6E880",
}

// The generated marker structs leave the colorscale attribute pending, so
// state-colored traces wrap them with a marker that carries it.
type coloredMarker struct {
	Size       interface{} `json:"size,omitempty"`
	Color      interface{} `json:"color,omitempty"`
	Colorscale string      `json:"colorscale,omitempty"`
	Opacity    float64     `json:"opacity,omitempty"`
}

type coloredScatter struct {
	grob.Scatter
	Marker *coloredMarker `json:"marker,omitempty"`
}

type coloredScatter3d struct {
	grob.Scatter3d
	Marker *coloredMarker `json:"marker,omitempty"`
}

// ToJSON serializes a figure the way it is stored in a plotly metric.
func ToJSON(fig *grob.Fig) (string, error) {
	data, err := sonic.Marshal(fig)
	if err != nil {
		return "", fmt.Errorf("encode figure: %w", err)
	}
	return string(data), nil
}

func lineLayout(title, xTitle, yTitle string) *grob.Layout {
	return &grob.Layout{
		Title:    &grob.LayoutTitle{Text: title},
		Xaxis:    &grob.LayoutXaxis{Title: &grob.LayoutXaxisTitle{Text: xTitle}},
		Yaxis:    &grob.LayoutYaxis{Title: &grob.LayoutYaxisTitle{Text: yTitle}},
		Template: "plotly_white",
	}
}

// SpeedOverTime charts sample speeds against timestamps.
func SpeedOverTime(timestamps []time.Time, speeds []float64) *grob.Fig {
	return &grob.Fig{
		Data: grob.Traces{
			&grob.Scatter{
				Type: grob.TraceTypeScatter,
				X:    formatTimes(timestamps),
				Y:    speeds,
				Mode: grob.ScatterModeLines + "+" + grob.ScatterModeMarkers,
				Name: "Speed",
				Line: &grob.ScatterLine{Color: "blue"},
			},
		},
		Layout: lineLayout("Speed Over Time", "Time", "Speed (m/s)"),
	}
}

// AltitudeOverTime charts altitude against seconds from flight start.
// Seconds are used instead of timestamps so batch comparison can
// overlay traces from different flights on one axis.
func AltitudeOverTime(seconds, altitudes []float64) *grob.Fig {
	return &grob.Fig{
		Data: grob.Traces{
			&grob.Scatter{
				Type: grob.TraceTypeScatter,
				X:    seconds,
				Y:    altitudes,
				Mode: grob.ScatterModeLines + "+" + grob.ScatterModeMarkers,
				Name: "Altitude",
				Line: &grob.ScatterLine{Color: "blue"},
			},
		},
		Layout: lineLayout("Altitude Over Time", "Time (s)", "Altitude (m)"),
	}
}

// StatesOverTime charts state transitions as a colored scatter. States
// are mapped to their index in stateSet for the color scale.
func StatesOverTime(timestamps []time.Time, states []string, stateSet []string) *grob.Fig {
	stateToNum := make(map[string]int, len(stateSet))
	for i, s := range stateSet {
		stateToNum[s] = i
	}
	colorValues := make([]int, len(states))
	for i, s := range states {
		colorValues[i] = stateToNum[s]
	}

	return &grob.Fig{
		Data: grob.Traces{
			&coloredScatter{
				Scatter: grob.Scatter{
					Type: grob.TraceTypeScatter,
					X:    formatTimes(timestamps),
					Y:    colorValues,
					Mode: grob.ScatterModeMarkers,
					Name: "State",
				},
				Marker: &coloredMarker{
					Size:       6,
					Color:      colorValues,
					Colorscale: "Viridis",
				},
			},
		},
		Layout: lineLayout("Flight States Over Time", "Time", "State"),
	}
}

// XPositionOverTime charts x position against seconds from flight start.
func XPositionOverTime(seconds, positions []float64) *grob.Fig {
	return &grob.Fig{
		Data: grob.Traces{
			&grob.Scatter{
				Type: grob.TraceTypeScatter,
				X:    seconds,
				Y:    positions,
				Mode: grob.ScatterModeLines + "+" + grob.ScatterModeMarkers,
				Name: "X Position",
				Line: &grob.ScatterLine{Color: "blue"},
			},
		},
		Layout: lineLayout("X Position Over Time", "Time (s)", "X Position (m)"),
	}
}

// SpeedDistribution charts the speed histogram with ten bins.
func SpeedDistribution(speeds []float64) *grob.Fig {
	layout := lineLayout("Speed Distribution", "Speed (m/s)", "Count")
	layout.Bargap = 0.1
	return &grob.Fig{
		Data: grob.Traces{
			&grob.Histogram{
				Type:    grob.TraceTypeHistogram,
				X:       speeds,
				Name:    "Speed Distribution",
				Nbinsx:  10,
				Opacity: 0.75,
			},
		},
		Layout: layout,
	}
}

// FlightPath3D charts the flight path in 3D, colored by state index.
func FlightPath3D(xs, ys, zs []float64, states []string, stateSet []string) *grob.Fig {
	stateToNum := make(map[string]int, len(stateSet))
	for i, s := range stateSet {
		stateToNum[s] = i
	}
	colorValues := make([]int, len(states))
	for i, s := range states {
		colorValues[i] = stateToNum[s]
	}

	return &grob.Fig{
		Data: grob.Traces{
			&coloredScatter3d{
				Scatter3d: grob.Scatter3d{
					Type: grob.TraceTypeScatter3d,
					X:    xs,
					Y:    ys,
					Z:    zs,
					Mode: grob.Scatter3dModeMarkers + "+" + grob.Scatter3dModeLines,
				},
				Marker: &coloredMarker{
					Size:       6,
					Color:      colorValues,
					Colorscale: "Viridis",
					Opacity:    0.8,
				},
			},
		},
		Layout: &grob.Layout{
			Title: &grob.LayoutTitle{Text: "3D Flight Path"},
			Scene: &grob.LayoutScene{
				Xaxis: &grob.LayoutSceneXaxis{Title: &grob.LayoutSceneXaxisTitle{Text: "X (m)"}},
				Yaxis: &grob.LayoutSceneYaxis{Title: &grob.LayoutSceneYaxisTitle{Text: "Y (m)"}},
				Zaxis: &grob.LayoutSceneZaxis{Title: &grob.LayoutSceneZaxisTitle{Text: "Z (m)"}},
			},
		},
	}
}

// ComparisonTrace is one flight's altitude series in the batch overlay.
type ComparisonTrace struct {
	JobID   string
	Seconds []float64
	Values  []float64
}

// AltitudeComparison overlays altitude traces from every flight in a
// batch, cycling the palette per flight.
func AltitudeComparison(traces []ComparisonTrace) *grob.Fig {
	fig := &grob.Fig{
		Layout: lineLayout("Altitude Comparison Across Flights", "Time (s)", "Altitude (m)"),
	}
	for i, t := range traces {
		name := fmt.Sprintf("Flight %s", t.JobID)
		fig.Data = append(fig.Data, &grob.Scatter{
			Type: grob.TraceTypeScatter,
			X:    t.Seconds,
			Y:    t.Values,
			Mode: grob.ScatterModeLines,
			Name: name,
			Line: &grob.ScatterLine{Color: comparisonPalette[i%len(comparisonPalette)]},
			Hovertemplate: fmt.Sprintf(
				"test=%s<br>time (s)=%%{x}<br>altitude (m)=%%{y}<extra></extra>", name),
			Legendgroup: name,
		})
	}
	return fig
}

func formatTimes(timestamps []time.Time) []string {
	out := make([]string, len(timestamps))
	for i, t := range timestamps {
		out[i] = t.Format("2006-01-02T15:04:05")
	}
	return out
}
