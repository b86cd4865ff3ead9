// Package views derives the chart inputs (entity profile, ranking and
// group comparison) from a dataset. Every builder is a pure read.
package views

import (
	"math"

	"github.com/joeaphiboon/faculty-comparison/internal/catalog"
	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
	"github.com/joeaphiboon/faculty-comparison/internal/labels"
)

// Range is the closed interval of observed values. Min and Max are NaN when
// no cell in scope holds a value.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Valid() bool {
	return !math.IsNaN(r.Min) && !math.IsNaN(r.Max)
}

func (r Range) Span() float64 { return r.Max - r.Min }

// Groups is the catalog surface the builders need.
type Groups interface {
	MetricsOf(group string) ([]string, error)
}

var _ Groups = (*catalog.Catalog)(nil)

func emptyRange() Range { return Range{Min: math.NaN(), Max: math.NaN()} }

func (r *Range) include(v float64) {
	if math.IsNaN(v) {
		return
	}
	if math.IsNaN(r.Min) || v < r.Min {
		r.Min = v
	}
	if math.IsNaN(r.Max) || v > r.Max {
		r.Max = v
	}
}

func groupColumns(ds *dataset.Dataset, metrics []string) ([][]float64, error) {
	cols := make([][]float64, len(metrics))
	for i, m := range metrics {
		col, err := ds.Column(m)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return cols, nil
}

// GroupRange is the min and max over every entity and every metric of a group.
func GroupRange(ds *dataset.Dataset, groups Groups, group string) (Range, error) {
	metrics, err := groups.MetricsOf(group)
	if err != nil {
		return Range{}, err
	}
	cols, err := groupColumns(ds, metrics)
	if err != nil {
		return Range{}, err
	}
	return rangeOf(cols), nil
}

func rangeOf(cols [][]float64) Range {
	r := emptyRange()
	for _, col := range cols {
		for _, v := range col {
			r.include(v)
		}
	}
	return r
}

func formatLabels(metrics []string) []string {
	return labels.FormatAll(metrics)
}
