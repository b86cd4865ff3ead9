package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/joeaphiboon/faculty-comparison/internal/render"
	"github.com/joeaphiboon/faculty-comparison/internal/views"
)

type Format string

const (
	CSV     Format = "csv"
	JSON    Format = "json"
	Parquet Format = "parquet"
	HTML    Format = "html"
	PNG     Format = "png"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case CSV, JSON, Parquet, HTML, PNG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: must be csv, json, parquet, html, or png", s)
	}
}

var errPNGNeedsComparison = errors.New("png export is only available for the comparison view")

// Record is one value of a view in long form. Value is nil where the cell is
// missing.
type Record struct {
	View   string   `json:"view" parquet:"view"`
	Entity string   `json:"entity" parquet:"entity"`
	Group  string   `json:"group,omitempty" parquet:"group"`
	Metric string   `json:"metric,omitempty" parquet:"metric"`
	Label  string   `json:"label" parquet:"label"`
	Value  *float64 `json:"value" parquet:"value,optional"`
}

func value(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// Records flattens a views.Ranking, views.Profile or views.Comparison.
func Records(view any) ([]Record, error) {
	switch v := view.(type) {
	case views.Ranking:
		out := make([]Record, 0, v.Len())
		for _, s := range v.Scores {
			out = append(out, Record{View: "ranking", Entity: s.Entity, Label: "Average Z-Score", Value: value(s.Score)})
		}
		return out, nil
	case views.Profile:
		out := make([]Record, 0, len(v.Metrics))
		for i, m := range v.Metrics {
			out = append(out, Record{View: "profile", Entity: v.Entity, Group: v.Group, Metric: m, Label: v.Labels[i], Value: value(v.Values[i])})
		}
		return out, nil
	case views.Comparison:
		var out []Record
		for _, s := range v.Series {
			for _, pt := range s.Points {
				out = append(out, Record{View: "comparison", Entity: pt.Entity, Group: v.Group, Metric: s.Metric, Label: s.Label, Value: value(pt.Value)})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot export %T", view)
	}
}

type ExportOptions struct {
	Baseline  bool
	PNGWidth  int
	PNGHeight int
}

// Export writes view in the given format.
func Export(w io.Writer, format Format, view any, o ExportOptions) error {
	switch format {
	case HTML:
		return exportHTML(w, view, o)
	case PNG:
		c, ok := view.(views.Comparison)
		if !ok {
			return errPNGNeedsComparison
		}
		return render.LinePNG(w, c, o.PNGWidth, o.PNGHeight)
	}

	records, err := Records(view)
	if err != nil {
		return err
	}
	switch format {
	case CSV:
		return writeCSV(w, records)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case Parquet:
		return writeParquet(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func exportHTML(w io.Writer, view any, o ExportOptions) error {
	page := render.ReportPage{Title: "Performance Analysis Dashboard", Baseline: o.Baseline}
	switch v := view.(type) {
	case views.Ranking:
		page.Ranking = &v
	case views.Profile:
		page.Profile = &v
	case views.Comparison:
		page.Comparison = &v
	default:
		return fmt.Errorf("cannot export %T", view)
	}
	return page.Render(w)
}

func writeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"view", "entity", "group", "metric", "label", "value"}); err != nil {
		return err
	}
	for _, r := range records {
		val := ""
		if r.Value != nil {
			val = strconv.FormatFloat(*r.Value, 'f', -1, 64)
		}
		if err := cw.Write([]string{r.View, r.Entity, r.Group, r.Metric, r.Label, val}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeParquet(w io.Writer, records []Record) error {
	writer := parquet.NewGenericWriter[Record](w)
	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}
