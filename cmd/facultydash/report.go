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

var reportFlags struct {
	entity  string
	group   string
	noColor bool
	width   int
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the ranking, a profile and a group comparison as tables.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup(os.Stderr)
		if err != nil {
			return err
		}
		defer a.close()

		o := report.DefaultOptions(reportFlags.noColor)
		o.Width = reportFlags.width
		return writeReport(cmd.Context(), cmd.OutOrStdout(), a, reportFlags.entity, reportFlags.group, o)
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.entity, "entity", "", "faculty to profile (default: first in the dataset)")
	f.StringVar(&reportFlags.group, "group", "", "skill group (default: first in the catalog)")
	f.BoolVar(&reportFlags.noColor, "no-color", false, "disable colored output")
	f.IntVar(&reportFlags.width, "width", 0, "maximum label width (default: fit the terminal)")
}

// writeReport prints all three views. The ranking is always printed; a bad
// entity or group only fails the sections that need it.
func writeReport(ctx context.Context, w io.Writer, a *app, entity, group string, o report.Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ds, err := a.cache.Get(ctx)
	if err != nil {
		return err
	}
	entity, group, err = selection(ctx, a, entity, group)
	if err != nil {
		return err
	}

	rk, err := views.BuildRanking(ds)
	if err != nil {
		return err
	}
	if err := report.WriteRanking(w, rk, o); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if p, err := views.BuildProfile(ds, a.catalog, entity, group); err != nil {
		fmt.Fprintf(w, "profile unavailable: %v\n", err)
	} else if err := report.WriteProfile(w, p, o); err != nil {
		return err
	}
	fmt.Fprintln(w)

	c, err := views.BuildComparison(ds, a.catalog, group)
	if err != nil {
		fmt.Fprintf(w, "comparison unavailable: %v\n", err)
		return nil
	}
	return report.WriteComparison(w, c, o)
}
