package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/joeaphiboon/faculty-comparison/internal/views"
)

const (
	DefaultPNGWidth  = 1200
	DefaultPNGHeight = 600
)

var errNoPoints = errors.New("comparison has no values to plot")

// LinePNG draws the comparison as a PNG. Entities sit at x = 1..n with their
// names as tick labels; missing values break nothing, the point is dropped.
func LinePNG(w io.Writer, c views.Comparison, width, height int) error {
	if width <= 0 {
		width = DefaultPNGWidth
	}
	if height <= 0 {
		height = DefaultPNGHeight
	}

	n := len(c.Entities)
	ticks := make([]chart.Tick, 0, n)
	for i, e := range c.Entities {
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: e})
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	series := make([]chart.Series, 0, len(c.Series))
	for i, s := range c.Series {
		var xs, ys []float64
		for j, p := range s.Points {
			if math.IsNaN(p.Value) {
				continue
			}
			xs = append(xs, float64(j+1))
			ys = append(ys, p.Value)
			lo = math.Min(lo, p.Value)
			hi = math.Max(hi, p.Value)
		}
		if len(xs) == 0 {
			continue
		}
		col := chart.GetDefaultColor(i)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: col,
				DotWidth:    4,
				DotColor:    col,
			},
		})
	}
	if len(series) == 0 {
		return errNoPoints
	}
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s Comparison Across Faculties", c.Group),
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 96}},
		XAxis: chart.XAxis{
			Name:  "Faculty",
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(n) + 0.5},
			Ticks: ticks,
			Style: chart.Style{TextRotationDegrees: 45.0},
		},
		YAxis: chart.YAxis{
			Name:  "Z-Score",
			Range: &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}
