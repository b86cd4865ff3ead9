package views

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeaphiboon/faculty-comparison/internal/catalog"
	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

var coreMetrics = []string{
	"avg Self-Awareness", "avg Confidence", "avg Positive Attitude",
	"avg Communication", "avg Creativity", "avg Global Competence",
}

// twoFaculties is Engineering plus Arts with mirrored signs.
func twoFaculties(t *testing.T) *dataset.Dataset {
	t.Helper()
	eng := []float64{0.5, -0.2, 0.1, 0.3, -0.1, 0.0}
	cols := make([][]float64, len(eng))
	for i, v := range eng {
		cols[i] = []float64{v, -v}
	}
	ds, err := dataset.New("Faculty", []string{"Engineering", "Arts"}, coreMetrics, cols)
	require.NoError(t, err)
	return ds
}

func fullDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	metrics := catalog.Default().Metrics()
	entities := []string{"Engineering", "Arts", "Science", "Law"}
	cols := make([][]float64, len(metrics))
	for i := range metrics {
		cols[i] = make([]float64, len(entities))
		for r := range entities {
			cols[i][r] = float64((i*7+r*3)%11-5) / 4
		}
	}
	ds, err := dataset.New("Faculty", entities, metrics, cols)
	require.NoError(t, err)
	return ds
}

func TestBuildProfileEndToEnd(t *testing.T) {
	ds := twoFaculties(t)

	p, err := BuildProfile(ds, catalog.Default(), "Engineering", "Core Skills")
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, -0.2, 0.1, 0.3, -0.1, 0.0}, p.Values)
	assert.Equal(t, "Self Awareness", p.Labels[0])
	assert.Equal(t, Range{Min: -0.5, Max: 0.5}, p.Range)

	closed := p.Closed()
	assert.Len(t, closed.Labels, 7)
	assert.Len(t, closed.Values, 7)
	assert.Equal(t, closed.Labels[0], closed.Labels[6])
	assert.Equal(t, closed.Values[0], closed.Values[6])
	assert.Len(t, p.Values, 6, "closing must not touch the profile")
}

func TestProfileClosureForEveryPair(t *testing.T) {
	ds := fullDataset(t)
	cat := catalog.Default()
	for _, g := range cat.Groups() {
		metrics, _ := cat.MetricsOf(g)
		for _, e := range ds.Entities() {
			p, err := BuildProfile(ds, cat, e, g)
			require.NoError(t, err)
			c := p.Closed()
			if len(c.Labels) != len(metrics)+1 {
				t.Fatalf("%s/%s: got %d labels", e, g, len(c.Labels))
			}
			assert.Equal(t, c.Labels[0], c.Labels[len(c.Labels)-1])
			assert.Equal(t, c.Values[0], c.Values[len(c.Values)-1])
		}
	}
}

func TestProfileRangeIndependentOfEntity(t *testing.T) {
	ds := fullDataset(t)
	cat := catalog.Default()
	for _, g := range cat.Groups() {
		want, err := GroupRange(ds, cat, g)
		require.NoError(t, err)
		for _, e := range ds.Entities() {
			p, err := BuildProfile(ds, cat, e, g)
			require.NoError(t, err)
			assert.Equal(t, want, p.Range, "%s/%s", e, g)
		}
	}
}

func TestProfileSingleRowRange(t *testing.T) {
	cols := [][]float64{{0.4}, {-1.2}, {0.9}, {0}, {0.1}, {0.2}}
	ds, err := dataset.New("", []string{"Only"}, coreMetrics, cols)
	require.NoError(t, err)

	p, err := BuildProfile(ds, catalog.Default(), "Only", "Core Skills")
	require.NoError(t, err)
	assert.Equal(t, Range{Min: -1.2, Max: 0.9}, p.Range)
}

func TestProfileRangeSkipsMissing(t *testing.T) {
	cols := [][]float64{{math.NaN(), 2}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-3, 0}}
	ds, err := dataset.New("", []string{"A", "B"}, coreMetrics, cols)
	require.NoError(t, err)

	p, err := BuildProfile(ds, catalog.Default(), "A", "Core Skills")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(p.Values[0]))
	assert.Equal(t, Range{Min: -3, Max: 2}, p.Range)
	assert.True(t, p.Range.Valid())
}

func TestBuildProfileErrors(t *testing.T) {
	ds := twoFaculties(t)
	cat := catalog.Default()

	_, err := BuildProfile(ds, cat, "Engineering", "Nonexistent")
	assert.ErrorIs(t, err, catalog.ErrUnknownGroup)

	_, err = BuildProfile(ds, cat, "Medicine", "Core Skills")
	assert.ErrorIs(t, err, dataset.ErrEntityNotFound)

	// The two-row dataset lacks the communication columns.
	_, err = BuildProfile(ds, cat, "Engineering", "Communication Cluster")
	assert.ErrorIs(t, err, dataset.ErrUnknownMetric)
}

func TestBuildRanking(t *testing.T) {
	ds, err := dataset.New("", []string{"A", "B", "C"}, []string{"x", "y"},
		[][]float64{{1, 0, -1}, {3, math.NaN(), -2}})
	require.NoError(t, err)

	r, err := BuildRanking(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, r.Entities())
	assert.InDelta(t, 2.0, r.Scores[0].Score, 1e-12)
	assert.InDelta(t, 0.0, r.Scores[1].Score, 1e-12)
	assert.InDelta(t, -1.5, r.Scores[2].Score, 1e-12)
}

func TestRankingMeanOfMeans(t *testing.T) {
	ds := fullDataset(t)
	r, err := BuildRanking(ds)
	require.NoError(t, err)

	var sum float64
	for i := range ds.Entities() {
		row := ds.RowValues(i)
		var s float64
		for _, v := range row {
			s += v
		}
		mean := s / float64(len(row))
		assert.InDelta(t, mean, r.Scores[i].Score, 1e-12)
		sum += mean
	}
	assert.InDelta(t, sum/float64(ds.Len()), r.Mean(), 1e-12)
}

func TestBuildRankingEmpty(t *testing.T) {
	ds, err := dataset.New("", nil, []string{"x"}, [][]float64{{}})
	require.NoError(t, err)

	_, err = BuildRanking(ds)
	if !errors.Is(err, dataset.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	_, err = BuildRanking(nil)
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)
}

func TestRankingSortedDesc(t *testing.T) {
	r := Ranking{Scores: []Score{
		{"A", 0.1}, {"B", math.NaN()}, {"C", 0.5}, {"D", 0.1},
	}}
	sorted := r.SortedDesc()
	got := make([]string, len(sorted))
	for i, s := range sorted {
		got[i] = s.Entity
	}
	assert.Equal(t, []string{"C", "A", "D", "B"}, got)
	assert.Equal(t, "A", r.Scores[0].Entity, "original order kept")
}

func TestBuildComparison(t *testing.T) {
	ds := fullDataset(t)
	cat := catalog.Default()

	for _, g := range cat.Groups() {
		metrics, _ := cat.MetricsOf(g)
		c, err := BuildComparison(ds, cat, g)
		require.NoError(t, err)
		require.Equal(t, len(metrics), c.Len())
		for i, s := range c.Series {
			assert.Equal(t, metrics[i], s.Metric)
			require.Len(t, s.Points, ds.Len())
			for r, p := range s.Points {
				assert.Equal(t, ds.Entities()[r], p.Entity)
				want, _ := ds.At(r, s.Metric)
				assert.Equal(t, want, p.Value)
			}
		}
	}

	c, err := BuildComparison(ds, cat, "Communication Cluster")
	require.NoError(t, err)
	s, ok := c.Lookup("Encode")
	require.True(t, ok)
	assert.Equal(t, "Encode", s.Label)
	assert.Len(t, s.Values(), 4)

	_, ok = c.Lookup("avg Confidence")
	assert.False(t, ok)
}

func TestBuildComparisonUnknownGroup(t *testing.T) {
	_, err := BuildComparison(twoFaculties(t), catalog.Default(), "Nope")
	assert.ErrorIs(t, err, catalog.ErrUnknownGroup)

	_, err = GroupRange(twoFaculties(t), catalog.Default(), "Nope")
	assert.ErrorIs(t, err, catalog.ErrUnknownGroup)
}
