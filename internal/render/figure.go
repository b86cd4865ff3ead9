// Package render turns view models into charts: plotly-compatible figure
// JSON for the dashboard, a standalone ECharts page, and PNG line charts.
package render

import (
	"math"
	"strconv"
)

// Number serialises NaN and infinities as null so plotly leaves a gap.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func numbers(vals []float64) []Number {
	out := make([]Number, len(vals))
	for i, v := range vals {
		out[i] = Number(v)
	}
	return out
}

// Figure is the {data, layout} document plotly.newPlot accepts.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type          string     `json:"type"`
	Name          string     `json:"name,omitempty"`
	Mode          string     `json:"mode,omitempty"`
	Orientation   string     `json:"orientation,omitempty"`
	X             []any      `json:"x,omitempty"`
	Y             []any      `json:"y,omitempty"`
	R             []Number   `json:"r,omitempty"`
	Theta         []string   `json:"theta,omitempty"`
	Fill          string     `json:"fill,omitempty"`
	Line          *LineStyle `json:"line,omitempty"`
	HoverInfo     string     `json:"hoverinfo,omitempty"`
	HoverTemplate string     `json:"hovertemplate,omitempty"`
	ShowLegend    *bool      `json:"showlegend,omitempty"`
}

type LineStyle struct {
	Color string  `json:"color,omitempty"`
	Dash  string  `json:"dash,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type Layout struct {
	Title        *Title `json:"title,omitempty"`
	ShowLegend   *bool  `json:"showlegend,omitempty"`
	HoverMode    string `json:"hovermode,omitempty"`
	XAxis        *Axis  `json:"xaxis,omitempty"`
	YAxis        *Axis  `json:"yaxis,omitempty"`
	Polar        *Polar `json:"polar,omitempty"`
	PaperBGColor string `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string `json:"plot_bgcolor,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title     *Title `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
	AutoRange string `json:"autorange,omitempty"`
	TickAngle *int   `json:"tickangle,omitempty"`
}

type Polar struct {
	RadialAxis  RadialAxis  `json:"radialaxis"`
	AngularAxis AngularAxis `json:"angularaxis"`
	BGColor     string      `json:"bgcolor,omitempty"`
}

type RadialAxis struct {
	Visible   bool     `json:"visible"`
	ShowLine  bool     `json:"showline"`
	LineWidth int      `json:"linewidth,omitempty"`
	LineColor string   `json:"linecolor,omitempty"`
	GridColor string   `json:"gridcolor,omitempty"`
	GridWidth int      `json:"gridwidth,omitempty"`
	Range     []Number `json:"range,omitempty"`
	Title     *Title   `json:"title,omitempty"`
	Angle     float64  `json:"angle"`
	TickVals  []Number `json:"tickvals,omitempty"`
	TickText  []string `json:"ticktext,omitempty"`
}

type AngularAxis struct {
	Direction string  `json:"direction"`
	Rotation  float64 `json:"rotation"`
	Period    int     `json:"period,omitempty"`
}

const (
	gridColor   = "LightGrey"
	transparent = "rgba(0,0,0,0)"
)

func title(s string) *Title { return &Title{Text: s} }

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }
