package render

import (
	"fmt"

	"github.com/joeaphiboon/faculty-comparison/internal/views"
)

const (
	radialTicks = 5
	// Plotly measures rotation counter-clockwise from 3 o'clock.
	bottomRotation = 270
)

type RadarOptions struct {
	// Baseline draws a dashed loop at zero.
	Baseline bool
}

func DefaultRadarOptions() RadarOptions {
	return RadarOptions{Baseline: true}
}

// Radar plots a profile on a polar axis whose radial range is the group's
// dataset-wide range, so every entity of a group shares one scale.
func Radar(p views.Profile, o RadarOptions) Figure {
	closed := p.Closed()

	var traces []Trace
	if o.Baseline {
		zeros := make([]Number, len(closed.Labels))
		traces = append(traces, Trace{
			Type:       "scatterpolar",
			Name:       "Baseline (0)",
			Mode:       "lines",
			R:          zeros,
			Theta:      closed.Labels,
			Line:       &LineStyle{Color: "grey", Dash: "dash", Width: 1},
			HoverInfo:  "skip",
			ShowLegend: boolPtr(false),
		})
	}
	traces = append(traces, Trace{
		Type:  "scatterpolar",
		Name:  p.Entity,
		R:     numbers(closed.Values),
		Theta: closed.Labels,
		Fill:  "toself",
	})

	radial := RadialAxis{
		Visible:   true,
		ShowLine:  true,
		LineWidth: 1,
		LineColor: gridColor,
		GridColor: gridColor,
		GridWidth: 1,
		Title:     title("Average Z-Score"),
		Angle:     0,
	}
	if p.Range.Valid() {
		radial.Range = []Number{Number(p.Range.Min), Number(p.Range.Max)}
		radial.TickVals, radial.TickText = ticks(p.Range, radialTicks)
	}

	return Figure{
		Data: traces,
		Layout: Layout{
			Title:      title(fmt.Sprintf("%s Analysis for %s", p.Group, p.Entity)),
			ShowLegend: boolPtr(true),
			Polar: &Polar{
				RadialAxis: radial,
				AngularAxis: AngularAxis{
					Direction: "clockwise",
					Rotation:  bottomRotation,
					Period:    len(p.Labels),
				},
				BGColor: transparent,
			},
			PaperBGColor: transparent,
			PlotBGColor:  "white",
		},
	}
}

// ticks returns n evenly spaced values from r.Min to r.Max inclusive and
// their one-decimal labels.
func ticks(r views.Range, n int) ([]Number, []string) {
	vals := make([]Number, n)
	text := make([]string, n)
	step := r.Span() / float64(n-1)
	for i := 0; i < n; i++ {
		v := r.Min + step*float64(i)
		if i == n-1 {
			v = r.Max
		}
		vals[i] = Number(v)
		text[i] = fmt.Sprintf("%.1f", v)
	}
	return vals, text
}
