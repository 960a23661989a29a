// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package table implements a command to build
// a summary table of the statistics of the grid files
// of a project.
package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/js-arias/command"
	"github.com/js-arias/sdmstat/batch"
	"github.com/js-arias/sdmstat/gridstat"
	"github.com/js-arias/sdmstat/project"
	"github.com/js-arias/sdmstat/summary"
)

var Command = &command.Command{
	Usage: "table [--csv] [--md] [--html <file>] <project-file>",
	Short: "build a summary table of the grid files",
	Long: `
Command table reads the grid files of an SDMStat project, and builds a table
with the statistics of each scenario: the mean and the maximum suitability, the
percentage of the area above each project threshold, and the percentage change
of the mean and the areas relative to the reference scenario.

The argument of the command is the name of the project file.

Only the cells that are valid in the reference grid are used, and the area
percentages use the number of valid cells of the reference grid. If the
reference value of a change is zero, the change is reported as zero. Scenarios
without valid data are marked as "no valid data".

The table is printed in the standard output as a Markdown table, and saved as
a tab-delimited file in the output directory of the project, named with the
project token and the suffix "_stats.tab". If the flag --csv is defined, the
file will be comma-delimited, with the suffix "_stats.csv". If the flag --md
is defined, the Markdown table will be saved too, with the suffix
"_stats.md".

If the flag --html is defined with a file name, an HTML page with bar charts
of the table will be saved in the indicated file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var csvFlag bool
var mdFlag bool
var htmlFile string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&csvFlag, "csv", false, "")
	c.Flags().BoolVar(&mdFlag, "md", false, "")
	c.Flags().StringVar(&htmlFile, "html", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	files, err := p.Files()
	if err != nil {
		return err
	}
	m, ref, err := p.Mask(files)
	if err != nil {
		return err
	}

	tab := summary.New(p.Thresholds())
	opts := gridstat.Options{
		Mask:       m,
		Thresholds: p.Thresholds(),
	}
	rep := batch.Run(files, func(name string) error {
		g, err := p.ReadGrid(name)
		if err != nil {
			return err
		}
		s, err := gridstat.Compute(g, opts)
		if errors.Is(err, gridstat.ErrNoData) {
			tab.AddNoData(p.Label(name))
		}
		if err != nil {
			return fmt.Errorf("on file %q: %w", name, err)
		}
		tab.Add(p.Label(name), s)
		return nil
	}, batch.NewLogger(c.Stderr()))

	if err := tab.SetBaseline(p.Label(ref)); err != nil {
		fmt.Fprintf(c.Stderr(), "WARNING: %v: using first row\n", err)
	}

	if err := tab.Markdown(c.Stdout()); err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout(), "\n")

	if err := os.MkdirAll(p.Output(), 0o755); err != nil {
		return err
	}
	name := filepath.Join(p.Output(), p.Prefix()+"_stats.tab")
	comma := '\t'
	if csvFlag {
		name = filepath.Join(p.Output(), p.Prefix()+"_stats.csv")
		comma = ','
	}
	if err := tab.WriteFile(name, comma); err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout(), "Saved stats to %s\n", name)

	if mdFlag {
		md := filepath.Join(p.Output(), p.Prefix()+"_stats.md")
		if err := writeMarkdown(md, tab); err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "Saved stats to %s\n", md)
	}

	if htmlFile != "" {
		if err := writeHTML(htmlFile, p, tab); err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "Saved chart to %s\n", htmlFile)
	}

	rep.Print(c.Stdout())
	return nil
}

func writeMarkdown(name string, tab *summary.Table) (err error) {
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

	if err := tab.Markdown(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func writeHTML(name string, p *project.Project, tab *summary.Table) (err error) {
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

	title := fmt.Sprintf("%s suitability", p.Prefix())
	if err := tab.Chart(f, title); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
