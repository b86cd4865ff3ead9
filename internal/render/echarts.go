package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/joeaphiboon/faculty-comparison/internal/views"
)

// ReportPage is a self-contained HTML page with whichever of the three
// charts are set. It needs no server to view.
type ReportPage struct {
	Title      string
	Profile    *views.Profile
	Ranking    *views.Ranking
	Comparison *views.Comparison
	Baseline   bool
}

var errNothingToRender = errors.New("report has no charts")

func (rp ReportPage) Render(w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = rp.Title
	if page.PageTitle == "" {
		page.PageTitle = "Performance Analysis Dashboard"
	}

	n := 0
	if rp.Profile != nil {
		page.AddCharts(echartsRadar(*rp.Profile, rp.Baseline))
		n++
	}
	if rp.Ranking != nil {
		page.AddCharts(echartsBar(*rp.Ranking))
		n++
	}
	if rp.Comparison != nil {
		page.AddCharts(echartsLine(*rp.Comparison))
		n++
	}
	if n == 0 {
		return errNothingToRender
	}
	return page.Render(w)
}

func echartValue(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// ECharts lays radar indicators out counter-clockwise, so everything after
// the first axis is reversed to read clockwise.
func clockwise[T any](in []T) []T {
	if len(in) < 3 {
		return append([]T(nil), in...)
	}
	out := make([]T, 0, len(in))
	out = append(out, in[0])
	for i := len(in) - 1; i > 0; i-- {
		out = append(out, in[i])
	}
	return out
}

func echartsRadar(p views.Profile, baseline bool) *charts.Radar {
	labels := clockwise(p.Labels)
	values := clockwise(p.Values)

	lo, hi := float32(-1), float32(1)
	if p.Range.Valid() {
		lo, hi = float32(p.Range.Min), float32(p.Range.Max)
	}
	indicators := make([]*opts.Indicator, len(labels))
	for i, l := range labels {
		indicators[i] = &opts.Indicator{Name: l, Min: lo, Max: hi}
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s Analysis for %s", p.Group, p.Entity),
			Subtitle: "Average Z-Score",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator:   indicators,
			Shape:       "polygon",
			SplitNumber: radialTicks - 1,
			SplitLine:   &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)

	if baseline {
		zeros := make([]any, len(labels))
		for i := range zeros {
			zeros[i] = 0.0
		}
		radar.AddSeries("Baseline (0)", []opts.RadarData{{Name: "Baseline (0)", Value: zeros}},
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed", Color: "grey"}),
		)
	}

	data := make([]any, len(values))
	for i, v := range values {
		data[i] = echartValue(v)
	}
	radar.AddSeries(p.Entity, []opts.RadarData{{Name: p.Entity, Value: data}},
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.3}),
	)
	return radar
}

func echartsBar(r views.Ranking) *charts.Bar {
	// After XYReversal the first category is drawn at the bottom, so feed
	// rows last to first to keep the first row on top.
	n := len(r.Scores)
	names := make([]string, n)
	data := make([]opts.BarData, n)
	for i, s := range r.Scores {
		names[n-1-i] = s.Entity
		data[n-1-i] = opts.BarData{Value: echartValue(s.Score)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Overall Faculty Performance"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Faculty"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Average Z-Score"}),
		charts.WithGridOpts(opts.Grid{Left: "20%"}),
	)
	bar.SetXAxis(names).AddSeries("Average Z-Score", data)
	bar.XYReversal()
	return bar
}

func echartsLine(c views.Comparison) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s Comparison Across Faculties", c.Group)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Faculty",
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Z-Score"}),
		charts.WithGridOpts(opts.Grid{Bottom: "25%"}),
	)

	line.SetXAxis(c.Entities)
	for _, s := range c.Series {
		data := make([]opts.LineData, len(s.Points))
		for i, p := range s.Points {
			data[i] = opts.LineData{Value: echartValue(p.Value)}
		}
		line.AddSeries(s.Label, data)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	return line
}
