package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeaphiboon/faculty-comparison/internal/catalog"
	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
	"github.com/joeaphiboon/faculty-comparison/internal/source"
)

type fakeDatasets struct {
	ds      *dataset.Dataset
	err     error
	reloads int
}

func (f *fakeDatasets) Get(context.Context) (*dataset.Dataset, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ds, nil
}

func (f *fakeDatasets) Reload(ctx context.Context) (*dataset.Dataset, error) {
	f.reloads++
	return f.Get(ctx)
}

// testDataset carries every catalog metric for two faculties.
func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	cols := catalog.Default().Metrics()
	values := make([][]float64, len(cols))
	for i := range cols {
		values[i] = []float64{0.5, -0.5}
	}
	values[0][1] = math.NaN()
	ds, err := dataset.New("Faculty", []string{"Engineering", "Arts"}, cols, values)
	require.NoError(t, err)
	ds.Source = "file"
	return ds
}

func setupTestRouter(t *testing.T) (http.Handler, *fakeDatasets) {
	t.Helper()
	fd := &fakeDatasets{ds: testDataset(t)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := Options{AdminToken: "test-token", Baseline: true, Version: "v.1.0.1"}
	return NewRouter(fd, catalog.Default(), opts, logger), fd
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestGroups(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := get(t, router, "/api/v1/groups")
	require.Equal(t, http.StatusOK, w.Code)

	var groups []GroupInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&groups))
	require.Len(t, groups, 4)
	assert.Equal(t, "Core Skills", groups[0].Name)
	assert.Equal(t, "Self Awareness", groups[0].Labels[0])
	assert.Len(t, groups[0].Labels, len(groups[0].Metrics))
}

func TestEntitiesAndDataset(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := get(t, router, "/api/v1/entities")
	require.Equal(t, http.StatusOK, w.Code)
	var entities []string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entities))
	assert.Equal(t, []string{"Engineering", "Arts"}, entities)

	w = get(t, router, "/api/v1/dataset")
	require.Equal(t, http.StatusOK, w.Code)
	var status DatasetStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, 2, status.Rows)
	assert.Equal(t, "file", status.Source)
	assert.Equal(t, "Faculty", status.EntityColumn)
}

func TestRadarChart(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := get(t, router, "/api/v1/charts/radar?entity=Arts&group=Core+Skills")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := w.Body.String()
	assert.Contains(t, body, "Core Skills Analysis for Arts")
	assert.Contains(t, body, `"Baseline (0)"`)
	assert.Contains(t, body, "null", "missing cell must encode as null")
}

func TestRadarDefaultsSelection(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := get(t, router, "/api/v1/charts/radar")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Core Skills Analysis for Engineering")
}

func TestChartErrors(t *testing.T) {
	router, _ := setupTestRouter(t)

	cases := []struct {
		path   string
		status int
	}{
		{"/api/v1/charts/radar?entity=Medicine&group=Core+Skills", http.StatusNotFound},
		{"/api/v1/charts/radar?entity=Arts&group=Nope", http.StatusNotFound},
		{"/api/v1/charts/comparison?group=Nope", http.StatusNotFound},
		{"/api/v1/charts/comparison.png?group=Nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := get(t, router, tc.path)
		assert.Equal(t, tc.status, w.Code, tc.path)
		assert.Contains(t, w.Body.String(), `"error"`, tc.path)
	}
}

func TestRankingAndComparison(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := get(t, router, "/api/v1/charts/ranking")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Overall Faculty Performance")

	w = get(t, router, "/api/v1/charts/comparison?group=Global+Cluster")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Global Cluster Comparison Across Faculties")

	w = get(t, router, "/api/v1/charts/comparison.png?group=Global+Cluster")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func TestDashboardScopesErrorsPerChart(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := get(t, router, "/api/v1/dashboard?entity=Medicine&group=Leadership+Cluster")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DashboardResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Radar.Error, "Medicine")
	assert.Nil(t, resp.Radar.Figure)
	assert.Empty(t, resp.Ranking.Error)
	assert.NotNil(t, resp.Ranking.Figure)
	assert.Empty(t, resp.Comparison.Error)
	assert.NotNil(t, resp.Comparison.Figure)
}

func TestDatasetUnavailable(t *testing.T) {
	router, fd := setupTestRouter(t)
	fd.err = fmt.Errorf("%w: every source failed", source.ErrDatasetUnavailable)

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/entities", "/api/v1/charts/ranking", "/report"} {
		w := get(t, router, path)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}

	w := get(t, router, "/")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Unable to load data")
	assert.Contains(t, w.Body.String(), "About the Metrics")
}

func TestIndexPage(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := get(t, router, "/?entity=Arts&group=Global+Cluster")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "v.1.0.1")
	assert.Contains(t, body, `<option value="Arts" selected>`)
	assert.Contains(t, body, `<option value="Global Cluster" selected>`)
	assert.Contains(t, body, "Exploration &amp; Openness To New Perspectives")
	assert.Contains(t, body, "PISA")
}

func TestReportPage(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := get(t, router, "/report?entity=Arts&group=Core+Skills")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Overall Faculty Performance")
}

func TestReportPageLogsSkippedCharts(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	router := NewRouter(&fakeDatasets{ds: testDataset(t)}, catalog.Default(), Options{Baseline: true}, logger)

	w := get(t, router, "/report?entity=Arts&group=Cooking")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Overall Faculty Performance")
	assert.Contains(t, logs.String(), "report radar skipped")
	assert.Contains(t, logs.String(), "report comparison skipped")
	assert.Contains(t, logs.String(), "group=Cooking")
}

func TestReloadRequiresAdminToken(t *testing.T) {
	router, fd := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/admin/reload", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, fd.reloads)

	req := httptest.NewRequest("POST", "/api/v1/admin/reload", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, fd.reloads)
}

func TestHealthEndpoint(t *testing.T) {
	router := NewMetricsRouter()
	w := get(t, router, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	w = get(t, router, "/metrics")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		source.ErrDatasetUnavailable:                         http.StatusServiceUnavailable,
		fmt.Errorf("%w: %q", catalog.ErrUnknownGroup, "x"):   http.StatusNotFound,
		fmt.Errorf("%w: %q", dataset.ErrEntityNotFound, "x"): http.StatusNotFound,
		dataset.ErrEmptyDataset:                              http.StatusUnprocessableEntity,
		fmt.Errorf("wrapped: %w", dataset.ErrMissingColumn):  http.StatusUnprocessableEntity,
		fmt.Errorf("boom"):                                   http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(err), err.Error())
	}
}
