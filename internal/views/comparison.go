package views

import (
	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

type Point struct {
	Entity string  `json:"entity"`
	Value  float64 `json:"value"`
}

// Series is one metric across every entity, in dataset order.
type Series struct {
	Metric string  `json:"metric"`
	Label  string  `json:"label"`
	Points []Point `json:"points"`
}

func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Comparison has one series per group metric, in catalog order.
type Comparison struct {
	Group    string   `json:"group"`
	Entities []string `json:"entities"`
	Series   []Series `json:"series"`
}

func BuildComparison(ds *dataset.Dataset, groups Groups, group string) (Comparison, error) {
	metrics, err := groups.MetricsOf(group)
	if err != nil {
		return Comparison{}, err
	}
	cols, err := groupColumns(ds, metrics)
	if err != nil {
		return Comparison{}, err
	}

	entities := ds.Entities()
	names := formatLabels(metrics)
	c := Comparison{Group: group, Entities: entities, Series: make([]Series, len(metrics))}
	for i, m := range metrics {
		pts := make([]Point, len(entities))
		for r, e := range entities {
			pts[r] = Point{Entity: e, Value: cols[i][r]}
		}
		c.Series[i] = Series{Metric: m, Label: names[i], Points: pts}
	}
	return c, nil
}

// Len is the number of metrics.
func (c Comparison) Len() int { return len(c.Series) }

func (c Comparison) Lookup(metric string) (Series, bool) {
	for _, s := range c.Series {
		if s.Metric == metric {
			return s, true
		}
	}
	return Series{}, false
}
