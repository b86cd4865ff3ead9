package views

import (
	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

// Profile is one entity's scores for a group, in catalog order. Range covers
// the whole dataset for the group so it does not depend on Entity.
type Profile struct {
	Entity  string    `json:"entity"`
	Group   string    `json:"group"`
	Metrics []string  `json:"metrics"`
	Labels  []string  `json:"labels"`
	Values  []float64 `json:"values"`
	Range   Range     `json:"range"`
}

// ClosedProfile repeats the first label and value at the end so a polar
// plot draws a closed loop.
type ClosedProfile struct {
	Entity string
	Group  string
	Labels []string
	Values []float64
	Range  Range
}

func BuildProfile(ds *dataset.Dataset, groups Groups, entity, group string) (Profile, error) {
	metrics, err := groups.MetricsOf(group)
	if err != nil {
		return Profile{}, err
	}
	row, err := ds.Row(entity)
	if err != nil {
		return Profile{}, err
	}
	cols, err := groupColumns(ds, metrics)
	if err != nil {
		return Profile{}, err
	}

	values := make([]float64, len(metrics))
	for i, col := range cols {
		values[i] = col[row]
	}
	return Profile{
		Entity:  entity,
		Group:   group,
		Metrics: metrics,
		Labels:  formatLabels(metrics),
		Values:  values,
		Range:   rangeOf(cols),
	}, nil
}

// Closed returns a copy with the loop closed. The receiver is not modified.
func (p Profile) Closed() ClosedProfile {
	c := ClosedProfile{
		Entity: p.Entity,
		Group:  p.Group,
		Labels: make([]string, 0, len(p.Labels)+1),
		Values: make([]float64, 0, len(p.Values)+1),
		Range:  p.Range,
	}
	c.Labels = append(c.Labels, p.Labels...)
	c.Values = append(c.Values, p.Values...)
	if len(p.Labels) > 0 {
		c.Labels = append(c.Labels, p.Labels[0])
		c.Values = append(c.Values, p.Values[0])
	}
	return c
}
