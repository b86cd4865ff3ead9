// Package mcp exposes the dashboard views as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joeaphiboon/faculty-comparison/internal/catalog"
	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

// Datasets supplies the current dataset.
type Datasets interface {
	Get(ctx context.Context) (*dataset.Dataset, error)
}

// NewMCPServer configures the tool server without starting it.
func NewMCPServer(ds Datasets, cat *catalog.Catalog, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Faculty Comparison Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{datasets: ds, catalog: cat}

	s.AddTool(mcp.NewTool("list_skill_groups",
		mcp.WithDescription("List the skill groups with their metrics, display labels and descriptions."),
	), h.handleListSkillGroups)

	s.AddTool(mcp.NewTool("list_faculties",
		mcp.WithDescription("List the faculties in the loaded dataset, in dataset order."),
	), h.handleListFaculties)

	s.AddTool(mcp.NewTool("get_entity_profile",
		mcp.WithDescription("Z-scores of one faculty for every metric in a skill group, with the group's range across all faculties."),
		mcp.WithString("entity", mcp.Description("Faculty name exactly as it appears in the dataset."), mcp.Required()),
		mcp.WithString("group", mcp.Description("Skill group name, see list_skill_groups."), mcp.Required()),
	), h.handleGetEntityProfile)

	s.AddTool(mcp.NewTool("get_ranking",
		mcp.WithDescription("Average Z-score of every faculty across all numeric columns."),
		mcp.WithString("order", mcp.Description("'dataset' keeps dataset order, 'desc' sorts best first. Defaults to 'dataset'."), mcp.Enum("dataset", "desc")),
	), h.handleGetRanking)

	s.AddTool(mcp.NewTool("get_group_comparison",
		mcp.WithDescription("Every faculty's Z-score for each metric of a skill group."),
		mcp.WithString("group", mcp.Description("Skill group name, see list_skill_groups."), mcp.Required()),
	), h.handleGetGroupComparison)

	return s
}

// StartMCPServer serves the tools over stdio until stdin closes.
func StartMCPServer(_ context.Context, ds Datasets, cat *catalog.Catalog, version string) error {
	return server.ServeStdio(NewMCPServer(ds, cat, version))
}
