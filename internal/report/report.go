// Package report prints the three views as terminal tables and exports them
// to files.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/joeaphiboon/faculty-comparison/internal/views"
)

type Options struct {
	UseColors bool
	Precision int
	// Width caps the label column; 0 detects the terminal width.
	Width int
}

// DefaultOptions colors output only when stdout is a terminal.
func DefaultOptions(noColor bool) Options {
	return Options{
		UseColors: !noColor && term.IsTerminal(int(os.Stdout.Fd())),
		Precision: 3,
	}
}

type palette struct {
	pos, neg, missing, heading func(...any) string
}

func (o Options) palette() palette {
	if !o.UseColors {
		return palette{pos: fmt.Sprint, neg: fmt.Sprint, missing: fmt.Sprint, heading: fmt.Sprint}
	}
	return palette{
		pos:     color.New(color.FgGreen).SprintFunc(),
		neg:     color.New(color.FgRed).SprintFunc(),
		missing: color.New(color.FgHiBlack).SprintFunc(),
		heading: color.New(color.FgCyan, color.Bold).SprintFunc(),
	}
}

func (o Options) number(p palette, v float64) string {
	if math.IsNaN(v) {
		return p.missing("n/a")
	}
	prec := o.Precision
	if prec <= 0 {
		prec = 3
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if v < 0 {
		return p.neg(s)
	}
	return p.pos(s)
}

func (o Options) labelWidth() int {
	width := o.Width
	if width == 0 {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || w <= 0 {
			w = 80
		}
		width = w
	}
	// rank, value and borders take about 30 columns
	available := width - 30
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

func renderTable(table *tablewriter.Table, data [][]string) error {
	defer func() { _ = table.Close() }()
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteRanking prints the ranking sorted best first. Entities without any
// value sort last.
func WriteRanking(w io.Writer, r views.Ranking, o Options) error {
	p := o.palette()
	if _, err := fmt.Fprintln(w, p.heading("Overall Faculty Performance")); err != nil {
		return err
	}
	width := o.labelWidth()
	var data [][]string
	for i, s := range r.SortedDesc() {
		data = append(data, []string{strconv.Itoa(i + 1), truncate(s.Entity, width), o.number(p, s.Score)})
	}
	if err := renderTable(newTable(w, []string{"Rank", "Faculty", "Average Z-Score"}), data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d faculties, overall mean %s\n", r.Len(), o.number(p, r.Mean()))
	return err
}

// WriteProfile prints one entity's scores in catalog order.
func WriteProfile(w io.Writer, pr views.Profile, o Options) error {
	p := o.palette()
	if _, err := fmt.Fprintln(w, p.heading(fmt.Sprintf("%s Analysis for %s", pr.Group, pr.Entity))); err != nil {
		return err
	}
	width := o.labelWidth()
	var data [][]string
	for i, label := range pr.Labels {
		data = append(data, []string{strconv.Itoa(i + 1), truncate(label, width), o.number(p, pr.Values[i])})
	}
	if err := renderTable(newTable(w, []string{"#", "Metric", "Z-Score"}), data); err != nil {
		return err
	}
	if pr.Range.Valid() {
		_, err := fmt.Fprintf(w, "Group range across faculties: %s to %s\n", o.number(p, pr.Range.Min), o.number(p, pr.Range.Max))
		return err
	}
	return nil
}

// WriteComparison prints a metric by entity grid for one group.
func WriteComparison(w io.Writer, c views.Comparison, o Options) error {
	p := o.palette()
	if _, err := fmt.Fprintln(w, p.heading(fmt.Sprintf("%s Comparison Across Faculties", c.Group))); err != nil {
		return err
	}
	width := o.labelWidth()
	headers := append([]string{"Faculty"}, make([]string, len(c.Series))...)
	for i, s := range c.Series {
		headers[i+1] = truncate(s.Label, width/2)
	}
	data := make([][]string, len(c.Entities))
	for row, entity := range c.Entities {
		data[row] = make([]string, 0, len(c.Series)+1)
		data[row] = append(data[row], truncate(entity, width))
		for _, s := range c.Series {
			data[row] = append(data[row], o.number(p, s.Points[row].Value))
		}
	}
	return renderTable(newTable(w, headers), data)
}
