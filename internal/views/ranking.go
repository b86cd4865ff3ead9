package views

import (
	"math"
	"sort"

	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

type Score struct {
	Entity string  `json:"entity"`
	Score  float64 `json:"score"`
}

// Ranking holds one mean score per entity in dataset row order.
type Ranking struct {
	Scores []Score `json:"scores"`
}

// BuildRanking scores every entity by the mean of all its numeric columns.
// Missing cells are left out of the mean.
func BuildRanking(ds *dataset.Dataset) (Ranking, error) {
	if ds == nil || ds.Len() == 0 {
		return Ranking{}, dataset.ErrEmptyDataset
	}
	entities := ds.Entities()
	scores := make([]Score, len(entities))
	for i, e := range entities {
		scores[i] = Score{Entity: e, Score: mean(ds.RowValues(i))}
	}
	return Ranking{Scores: scores}, nil
}

func mean(vals []float64) float64 {
	var sum float64
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func (r Ranking) Len() int { return len(r.Scores) }

func (r Ranking) Entities() []string {
	out := make([]string, len(r.Scores))
	for i, s := range r.Scores {
		out[i] = s.Entity
	}
	return out
}

func (r Ranking) Values() []float64 {
	out := make([]float64, len(r.Scores))
	for i, s := range r.Scores {
		out[i] = s.Score
	}
	return out
}

// Mean is the mean of the entity scores.
func (r Ranking) Mean() float64 { return mean(r.Values()) }

// SortedDesc returns a copy ordered by score, highest first. Equal scores
// keep dataset order and NaN scores sink to the end.
func (r Ranking) SortedDesc() []Score {
	out := append([]Score(nil), r.Scores...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Score, out[j].Score
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
	return out
}
