package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/joeaphiboon/faculty-comparison/internal/catalog"
	"github.com/joeaphiboon/faculty-comparison/internal/labels"
	"github.com/joeaphiboon/faculty-comparison/internal/report"
	"github.com/joeaphiboon/faculty-comparison/internal/views"
)

type toolHandler struct {
	datasets Datasets
	catalog  *catalog.Catalog
}

type groupResult struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Metrics     []string `json:"metrics"`
	Labels      []string `json:"labels"`
}

type metricValue struct {
	Metric string   `json:"metric"`
	Label  string   `json:"label"`
	Value  *float64 `json:"value"`
}

type profileResult struct {
	Entity   string        `json:"entity"`
	Group    string        `json:"group"`
	RangeMin *float64      `json:"range_min"`
	RangeMax *float64      `json:"range_max"`
	Values   []metricValue `json:"values"`
}

type rankedEntity struct {
	Position int      `json:"position"`
	Entity   string   `json:"entity"`
	Score    *float64 `json:"score"`
}

func ptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// textResult encodes v as indented JSON. Labels carry "&", so HTML escaping
// stays off.
func textResult(v any) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(strings.TrimRight(buf.String(), "\n")), nil
}

func (h *toolHandler) handleListSkillGroups(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out []groupResult
	for _, g := range h.catalog.All() {
		out = append(out, groupResult{
			Name:        g.Name,
			Description: g.Description,
			Metrics:     g.Metrics,
			Labels:      labels.FormatAll(g.Metrics),
		})
	}
	return textResult(map[string]any{"groups": out, "note": h.catalog.Note()})
}

func (h *toolHandler) handleListFaculties(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ds, err := h.datasets.Get(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dataset unavailable: %v", err)), nil
	}
	return textResult(ds.Entities())
}

func (h *toolHandler) handleGetEntityProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entity := request.GetString("entity", "")
	group := request.GetString("group", "")
	if entity == "" || group == "" {
		return mcp.NewToolResultError("entity and group are required"), nil
	}

	ds, err := h.datasets.Get(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dataset unavailable: %v", err)), nil
	}
	p, err := views.BuildProfile(ds, h.catalog, entity, group)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("profile failed: %v", err)), nil
	}

	out := profileResult{Entity: p.Entity, Group: p.Group, RangeMin: ptr(p.Range.Min), RangeMax: ptr(p.Range.Max)}
	for i, m := range p.Metrics {
		out.Values = append(out.Values, metricValue{Metric: m, Label: p.Labels[i], Value: ptr(p.Values[i])})
	}
	return textResult(out)
}

func (h *toolHandler) handleGetRanking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	order := request.GetString("order", "dataset")
	if order != "dataset" && order != "desc" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid order %q: must be dataset or desc", order)), nil
	}

	ds, err := h.datasets.Get(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dataset unavailable: %v", err)), nil
	}
	r, err := views.BuildRanking(ds)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}

	scores := r.Scores
	if order == "desc" {
		scores = r.SortedDesc()
	}
	out := make([]rankedEntity, len(scores))
	for i, s := range scores {
		out[i] = rankedEntity{Position: i + 1, Entity: s.Entity, Score: ptr(s.Score)}
	}
	return textResult(out)
}

func (h *toolHandler) handleGetGroupComparison(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group := request.GetString("group", "")
	if group == "" {
		return mcp.NewToolResultError("group is required"), nil
	}

	ds, err := h.datasets.Get(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dataset unavailable: %v", err)), nil
	}
	c, err := views.BuildComparison(ds, h.catalog, group)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	records, err := report.Records(c)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(map[string]any{"group": c.Group, "entities": c.Entities, "records": records})
}
