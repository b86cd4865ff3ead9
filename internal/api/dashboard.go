package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/joeaphiboon/faculty-comparison/internal/catalog"
	"github.com/joeaphiboon/faculty-comparison/internal/labels"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/dashboard.html"))

type DashboardHandler struct {
	datasets Datasets
	catalog  *catalog.Catalog
	charts   *ChartsHandler
	version  string
}

func NewDashboardHandler(ds Datasets, cat *catalog.Catalog, opts Options) *DashboardHandler {
	return &DashboardHandler{
		datasets: ds,
		catalog:  cat,
		charts:   &ChartsHandler{catalog: cat},
		version:  opts.Version,
	}
}

type referenceGroup struct {
	Name        string
	Description string
	Labels      []string
}

type dashboardPage struct {
	Version  string
	Error    string
	Entity   string
	Group    string
	Entities []string
	Groups   []referenceGroup
	Note     string
}

func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := dashboardPage{Version: h.version, Note: h.catalog.Note()}
	for _, g := range h.catalog.All() {
		page.Groups = append(page.Groups, referenceGroup{
			Name:        g.Name,
			Description: g.Description,
			Labels:      labels.FormatAll(g.Metrics),
		})
	}

	status := http.StatusOK
	ds, err := h.datasets.Get(r.Context())
	if err != nil {
		status = statusFor(err)
		page.Error = err.Error()
	} else {
		page.Entities = ds.Entities()
		page.Entity, page.Group = h.charts.selection(r, ds)
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, page); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
