package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joeaphiboon/faculty-comparison/internal/catalog"
	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

// Datasets is the dataset cache as the handlers see it.
type Datasets interface {
	Get(ctx context.Context) (*dataset.Dataset, error)
	Reload(ctx context.Context) (*dataset.Dataset, error)
}

type Options struct {
	AdminToken string
	Baseline   bool
	PNGWidth   int
	PNGHeight  int
	Version    string
	RateLimit  int
}

func NewRouter(ds Datasets, cat *catalog.Catalog, opts Options, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if opts.RateLimit > 0 {
		r.Use(RateLimitMiddleware(opts.RateLimit))
	}

	charts := NewChartsHandler(ds, cat, opts, logger)
	page := NewDashboardHandler(ds, cat, opts)

	r.Get("/", page.Index)
	r.Get("/report", charts.Report)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/groups", charts.Groups)
		r.Get("/entities", charts.Entities)
		r.Get("/dataset", charts.Dataset)
		r.Get("/dashboard", charts.Dashboard)

		r.Get("/charts/radar", charts.Radar)
		r.Get("/charts/ranking", charts.Ranking)
		r.Get("/charts/comparison", charts.Comparison)
		r.Get("/charts/comparison.png", charts.ComparisonPNG)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(opts.AdminToken))
			r.Post("/admin/reload", charts.Reload)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
