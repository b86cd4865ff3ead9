package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joeaphiboon/faculty-comparison/internal/report"
	"github.com/joeaphiboon/faculty-comparison/internal/views"
)

var exportFlags struct {
	format     string
	view       string
	entity     string
	group      string
	outputFile string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one view as csv, json, parquet, html or png.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := report.ParseFormat(exportFlags.format)
		if err != nil {
			return err
		}
		a, err := setup(os.Stderr)
		if err != nil {
			return err
		}
		defer a.close()

		view, err := buildView(cmd.Context(), a, exportFlags.view, exportFlags.entity, exportFlags.group)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if exportFlags.outputFile != "" {
			f, err := os.Create(exportFlags.outputFile)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}
		return export(out, format, view, a)
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.format, "format", "csv", "output format: csv, json, parquet, html, png")
	f.StringVar(&exportFlags.view, "view", "ranking", "view to export: ranking, profile, comparison")
	f.StringVar(&exportFlags.entity, "entity", "", "faculty for the profile view (default: first in the dataset)")
	f.StringVar(&exportFlags.group, "group", "", "skill group (default: first in the catalog)")
	f.StringVar(&exportFlags.outputFile, "output-file", "", "write to this file instead of stdout")
}

func buildView(ctx context.Context, a *app, view, entity, group string) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ds, err := a.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	entity, group, err = selection(ctx, a, entity, group)
	if err != nil {
		return nil, err
	}
	switch view {
	case "ranking":
		return views.BuildRanking(ds)
	case "profile":
		return views.BuildProfile(ds, a.catalog, entity, group)
	case "comparison":
		return views.BuildComparison(ds, a.catalog, group)
	default:
		return nil, fmt.Errorf("unknown view %q: must be ranking, profile, or comparison", view)
	}
}

func export(w io.Writer, format report.Format, view any, a *app) error {
	return report.Export(w, format, view, report.ExportOptions{
		Baseline:  a.cfg.Render.Baseline,
		PNGWidth:  a.cfg.Render.PNGWidth,
		PNGHeight: a.cfg.Render.PNGHeight,
	})
}
