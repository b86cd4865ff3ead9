package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/joeaphiboon/faculty-comparison/internal/catalog"
	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
	"github.com/joeaphiboon/faculty-comparison/internal/labels"
	"github.com/joeaphiboon/faculty-comparison/internal/metrics"
	"github.com/joeaphiboon/faculty-comparison/internal/render"
	"github.com/joeaphiboon/faculty-comparison/internal/source"
	"github.com/joeaphiboon/faculty-comparison/internal/views"
)

type ChartsHandler struct {
	datasets Datasets
	catalog  *catalog.Catalog
	opts     Options
	logger   *slog.Logger
}

func NewChartsHandler(ds Datasets, cat *catalog.Catalog, opts Options, logger *slog.Logger) *ChartsHandler {
	return &ChartsHandler{datasets: ds, catalog: cat, opts: opts, logger: logger}
}

type GroupInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Metrics     []string `json:"metrics"`
	Labels      []string `json:"labels"`
}

type DatasetStatus struct {
	Version      string    `json:"version"`
	Source       string    `json:"source"`
	LoadedAt     time.Time `json:"loaded_at"`
	EntityColumn string    `json:"entity_column"`
	Rows         int       `json:"rows"`
	Columns      []string  `json:"columns"`
	Skipped      []string  `json:"skipped,omitempty"`
}

type ChartResult struct {
	Figure *render.Figure `json:"figure,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type DashboardResponse struct {
	Entity     string      `json:"entity"`
	Group      string      `json:"group"`
	Radar      ChartResult `json:"radar"`
	Ranking    ChartResult `json:"ranking"`
	Comparison ChartResult `json:"comparison"`
}

func (h *ChartsHandler) Groups(w http.ResponseWriter, r *http.Request) {
	groups := h.catalog.All()
	out := make([]GroupInfo, len(groups))
	for i, g := range groups {
		out[i] = GroupInfo{
			Name:        g.Name,
			Description: g.Description,
			Metrics:     g.Metrics,
			Labels:      labels.FormatAll(g.Metrics),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ChartsHandler) Entities(w http.ResponseWriter, r *http.Request) {
	ds, err := h.datasets.Get(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.Entities())
}

func (h *ChartsHandler) Dataset(w http.ResponseWriter, r *http.Request) {
	ds, err := h.datasets.Get(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusOf(ds))
}

func (h *ChartsHandler) Radar(w http.ResponseWriter, r *http.Request) {
	ds, err := h.datasets.Get(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	entity, group := h.selection(r, ds)
	fig, err := h.radar(ds, entity, group)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

func (h *ChartsHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	ds, err := h.datasets.Get(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	fig, err := h.ranking(ds)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

func (h *ChartsHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	ds, err := h.datasets.Get(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	_, group := h.selection(r, ds)
	fig, err := h.comparison(ds, group)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

func (h *ChartsHandler) ComparisonPNG(w http.ResponseWriter, r *http.Request) {
	ds, err := h.datasets.Get(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	_, group := h.selection(r, ds)

	start := time.Now()
	var buf bytes.Buffer
	c, err := views.BuildComparison(ds, h.catalog, group)
	if err == nil {
		err = render.LinePNG(&buf, c, h.opts.PNGWidth, h.opts.PNGHeight)
	}
	metrics.ObserveRender("comparison_png", err, time.Since(start))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Dashboard builds all three charts. A failure in one chart is reported in
// its slot and the others still render; only a missing dataset fails the
// whole response.
func (h *ChartsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ds, err := h.datasets.Get(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	entity, group := h.selection(r, ds)
	resp := DashboardResponse{Entity: entity, Group: group}

	resp.Radar = result(h.radar(ds, entity, group))
	resp.Ranking = result(h.ranking(ds))
	resp.Comparison = result(h.comparison(ds, group))
	writeJSON(w, http.StatusOK, resp)
}

// Report serves the standalone HTML page. Charts that fail to build are left
// out of the page.
func (h *ChartsHandler) Report(w http.ResponseWriter, r *http.Request) {
	ds, err := h.datasets.Get(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	entity, group := h.selection(r, ds)

	page := render.ReportPage{Title: "Performance Analysis Dashboard", Baseline: h.opts.Baseline}
	if p, err := views.BuildProfile(ds, h.catalog, entity, group); err == nil {
		page.Profile = &p
	} else {
		h.logger.Warn("report radar skipped", "entity", entity, "group", group, "error", err)
	}
	if rk, err := views.BuildRanking(ds); err == nil {
		page.Ranking = &rk
	} else {
		h.logger.Warn("report ranking skipped", "error", err)
	}
	if c, err := views.BuildComparison(ds, h.catalog, group); err == nil {
		page.Comparison = &c
	} else {
		h.logger.Warn("report comparison skipped", "group", group, "error", err)
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *ChartsHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ds, err := h.datasets.Reload(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("dataset reloaded via api", "source", ds.Source, "version", ds.Version)
	writeJSON(w, http.StatusOK, statusOf(ds))
}

func (h *ChartsHandler) radar(ds *dataset.Dataset, entity, group string) (*render.Figure, error) {
	start := time.Now()
	p, err := views.BuildProfile(ds, h.catalog, entity, group)
	metrics.ObserveRender("radar", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	fig := render.Radar(p, render.RadarOptions{Baseline: h.opts.Baseline})
	return &fig, nil
}

func (h *ChartsHandler) ranking(ds *dataset.Dataset) (*render.Figure, error) {
	start := time.Now()
	rk, err := views.BuildRanking(ds)
	metrics.ObserveRender("ranking", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	fig := render.Bar(rk)
	return &fig, nil
}

func (h *ChartsHandler) comparison(ds *dataset.Dataset, group string) (*render.Figure, error) {
	start := time.Now()
	c, err := views.BuildComparison(ds, h.catalog, group)
	metrics.ObserveRender("comparison", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	fig := render.Line(c)
	return &fig, nil
}

// selection reads entity and group from the query, defaulting to the first
// entity and the first group like the dashboard's select boxes.
func (h *ChartsHandler) selection(r *http.Request, ds *dataset.Dataset) (entity, group string) {
	entity = r.URL.Query().Get("entity")
	group = r.URL.Query().Get("group")
	if entity == "" && ds.Len() > 0 {
		entity = ds.Entities()[0]
	}
	if group == "" {
		if groups := h.catalog.Groups(); len(groups) > 0 {
			group = groups[0]
		}
	}
	return entity, group
}

func (h *ChartsHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func result(fig *render.Figure, err error) ChartResult {
	if err != nil {
		return ChartResult{Error: err.Error()}
	}
	return ChartResult{Figure: fig}
}

func statusOf(ds *dataset.Dataset) DatasetStatus {
	return DatasetStatus{
		Version:      ds.Version.String(),
		Source:       ds.Source,
		LoadedAt:     ds.LoadedAt,
		EntityColumn: ds.EntityColumn(),
		Rows:         ds.Len(),
		Columns:      ds.Columns(),
		Skipped:      ds.Skipped(),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, source.ErrDatasetUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, catalog.ErrUnknownGroup), errors.Is(err, dataset.ErrEntityNotFound):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrEmptyDataset),
		errors.Is(err, dataset.ErrMissingColumn),
		errors.Is(err, dataset.ErrUnknownMetric):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
