package render

import (
	"github.com/joeaphiboon/faculty-comparison/internal/views"
)

// Bar draws one horizontal bar per entity. The category axis is reversed so
// the first dataset row sits at the top.
func Bar(r views.Ranking) Figure {
	x := make([]any, len(r.Scores))
	y := make([]any, len(r.Scores))
	for i, s := range r.Scores {
		x[i] = Number(s.Score)
		y[i] = s.Entity
	}
	return Figure{
		Data: []Trace{{
			Type:          "bar",
			Orientation:   "h",
			X:             x,
			Y:             y,
			HoverTemplate: "%{y}: %{x:.2f}<extra></extra>",
		}},
		Layout: Layout{
			Title:      title("Overall Faculty Performance"),
			ShowLegend: boolPtr(false),
			XAxis:      &Axis{Title: title("Average Z-Score")},
			YAxis:      &Axis{Title: title("Faculty"), Type: "category", AutoRange: "reversed"},
		},
	}
}
