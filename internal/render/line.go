package render

import (
	"fmt"

	"github.com/joeaphiboon/faculty-comparison/internal/views"
)

const xTickAngle = -45

// Line draws one lines+markers trace per metric across the entities, with a
// hover label shared by every trace at the same entity.
func Line(c views.Comparison) Figure {
	traces := make([]Trace, 0, len(c.Series))
	for _, s := range c.Series {
		x := make([]any, len(s.Points))
		y := make([]any, len(s.Points))
		for i, p := range s.Points {
			x[i] = p.Entity
			y[i] = Number(p.Value)
		}
		traces = append(traces, Trace{
			Type: "scatter",
			Name: s.Label,
			Mode: "lines+markers",
			X:    x,
			Y:    y,
		})
	}
	return Figure{
		Data: traces,
		Layout: Layout{
			Title:     title(fmt.Sprintf("%s Comparison Across Faculties", c.Group)),
			HoverMode: "x unified",
			XAxis:     &Axis{Title: title("Faculty"), Type: "category", TickAngle: intPtr(xTickAngle)},
			YAxis:     &Axis{Title: title("Z-Score")},
		},
	}
}
