// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package summary

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Write writes the table as delimited text,
// using comma as the field delimiter.
func (t *Table) Write(w io.Writer, comma rune) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# summary statistics\n")
	fmt.Fprintf(bw, "# run: %s\n", t.ID)
	fmt.Fprintf(bw, "# data save on: %s\n", t.Date.Format(time.RFC3339))

	tab := csv.NewWriter(bw)
	tab.Comma = comma
	tab.UseCRLF = true

	if err := tab.Write(t.Header()); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for _, r := range t.rows {
		if err := tab.Write(t.record(r, -1)); err != nil {
			return err
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return bw.Flush()
}

// WriteFile writes the table as delimited text
// into a file.
func (t *Table) WriteFile(name string, comma rune) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := t.Write(f, comma); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

// Markdown writes the table as a Markdown pipe table,
// with two decimals.
// Text columns are left aligned,
// and numeric columns are right aligned.
func (t *Table) Markdown(w io.Writer) error {
	head := t.Header()
	recs := make([][]string, 0, len(t.rows))
	for _, r := range t.rows {
		recs = append(recs, t.record(r, 2))
	}

	width := make([]int, len(head))
	for i, h := range head {
		width[i] = utf8.RuneCountInString(h)
	}
	for _, rec := range recs {
		for i, v := range rec {
			if n := utf8.RuneCountInString(v); n > width[i] {
				width[i] = n
			}
		}
	}

	var b strings.Builder
	for i, h := range head {
		b.WriteString("| ")
		b.WriteString(pad(h, width[i], i > 0))
		b.WriteString(" ")
	}
	b.WriteString("|\n")
	for i := range head {
		if i == 0 {
			b.WriteString("|:" + strings.Repeat("-", width[i]+1))
			continue
		}
		b.WriteString("|" + strings.Repeat("-", width[i]+1) + ":")
	}
	b.WriteString("|\n")
	for _, rec := range recs {
		for i, v := range rec {
			b.WriteString("| ")
			b.WriteString(pad(v, width[i], i > 0))
			b.WriteString(" ")
		}
		b.WriteString("|\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func pad(s string, width int, right bool) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Chart writes an HTML page
// with bar charts of the mean suitability
// and the area above each threshold
// of each scenario.
func (t *Table) Chart(w io.Writer, title string) error {
	var x []string
	for _, r := range t.rows {
		x = append(x, r.Scenario)
	}

	mean := charts.NewBar()
	mean.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("run=%s", t.ID)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	mean.SetXAxis(x).
		AddSeries("Mean Suitability", t.barData(func(r Row) float64 { return r.Mean }),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		).
		AddSeries("Max Suitability", t.barData(func(r Row) float64 { return r.Max }))

	area := charts.NewBar()
	area.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Area above thresholds (%)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	area.SetXAxis(x)
	for i, th := range t.thresholds {
		area.AddSeries(fmt.Sprintf("%% Area > %g", th), t.barData(func(r Row) float64 { return r.Area[i] }),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(mean, area)
	return page.Render(w)
}

func (t *Table) barData(val func(Row) float64) []opts.BarData {
	data := make([]opts.BarData, 0, len(t.rows))
	for _, r := range t.rows {
		if r.NoData {
			data = append(data, opts.BarData{Name: NoValidData, Value: 0})
			continue
		}
		data = append(data, opts.BarData{Value: val(r)})
	}
	return data
}
