// Package metrics registers the Prometheus collectors served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SourceLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facultydash",
		Name:      "source_loads_total",
		Help:      "Dataset load attempts by source and outcome.",
	}, []string{"source", "outcome"})

	SourceLoadSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "facultydash",
		Name:      "source_load_seconds",
		Help:      "Time spent loading a dataset from one source.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facultydash",
		Name:      "cache_lookups_total",
		Help:      "Dataset cache lookups by result.",
	}, []string{"result"})

	ChartRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facultydash",
		Name:      "chart_renders_total",
		Help:      "Charts rendered by kind and outcome.",
	}, []string{"chart", "outcome"})

	ChartRenderSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "facultydash",
		Name:      "chart_render_seconds",
		Help:      "Time spent building and rendering a chart.",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
	}, []string{"chart"})
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ObserveSourceLoad(source string, err error, d time.Duration) {
	SourceLoads.WithLabelValues(source, outcome(err)).Inc()
	SourceLoadSeconds.WithLabelValues(source).Observe(d.Seconds())
}

func ObserveRender(chart string, err error, d time.Duration) {
	ChartRenders.WithLabelValues(chart, outcome(err)).Inc()
	ChartRenderSeconds.WithLabelValues(chart).Observe(d.Seconds())
}
