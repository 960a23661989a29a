// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package analyze implements a command to print
// the statistics of the grid files of a project.
package analyze

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/js-arias/command"
	"github.com/js-arias/sdmstat/batch"
	"github.com/js-arias/sdmstat/chart"
	"github.com/js-arias/sdmstat/gridstat"
	"github.com/js-arias/sdmstat/mask"
	"github.com/js-arias/sdmstat/project"
	"github.com/js-arias/sdmstat/raster"
)

var Command = &command.Command{
	Usage: "analyze [--mask] [--no-hist] <project-file>",
	Short: "print the statistics of the grid files",
	Long: `
Command analyze reads the grid files of an SDMStat project and prints a report
of each file: the file format, the size of the grid, the coordinate reference
system, the no-data value, the geographic extent, and the statistics of the
valid cells (minimum, maximum, mean, and population standard deviation), as
well as the percentage of the area above each project threshold.

The argument of the command is the name of the project file.

A cell is valid if it is a finite value different from the no-data value of
the grid. By default, all valid cells are used. If the flag --mask is defined,
the cells that are not valid in the reference grid (for example, the sea) will
be excluded, and the area percentages will use the number of valid cells of
the reference grid.

Warnings are printed for grids in which all cells have the same value, with
values greater than 1 (i.e., they might not be probabilities), or with negative
values.

By default, a histogram of the values of the valid cells will be saved for
each grid, using the name of the grid file with the suffix "_hist.png", in the
output directory of the project. If the flag --no-hist is defined, no
histogram will be produced.

A failure in a file is reported, and the analysis continues with the next
file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var maskFlag bool
var noHist bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&maskFlag, "mask", false, "")
	c.Flags().BoolVar(&noHist, "no-hist", false, "")
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
	if !noHist {
		if err := os.MkdirAll(p.Output(), 0o755); err != nil {
			return err
		}
	}

	var m *mask.Mask
	if maskFlag {
		var ref string
		m, ref, err = p.Mask(files)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "Created mask from %s. Valid pixels: %d\n", filepath.Base(ref), m.Count())
	}

	fmt.Fprintf(c.Stdout(), "Found %d %s files.\n", len(files), p.Extension())
	rep := batch.Run(files, func(name string) error {
		return analyze(c.Stdout(), p, name, m)
	}, batch.NewLogger(c.Stderr()))

	fmt.Fprintf(c.Stdout(), "\n")
	rep.Print(c.Stdout())
	return nil
}

func analyze(w io.Writer, p *project.Project, name string, m *mask.Mask) error {
	base := filepath.Base(name)
	fmt.Fprintf(w, "\n--- Analyzing: %s ---\n", base)

	g, err := p.ReadGrid(name)
	if err != nil {
		return err
	}
	printInfo(w, g)

	opts := gridstat.Options{
		Mask:       m,
		Thresholds: p.Thresholds(),
	}

	// a grid with a different shape
	// is analyzed without the mask
	var shapeErr error
	if m != nil {
		if err := m.Check(g); err != nil {
			fmt.Fprintf(w, "WARNING: %v: analyzing without mask\n", err)
			opts.Mask = nil
			shapeErr = fmt.Errorf("on file %q: %w", name, err)
		}
	}

	vals, err := gridstat.Values(g, opts)
	if err != nil {
		return fmt.Errorf("on file %q: %w", name, err)
	}
	s, err := gridstat.FromValues(vals, opts)
	if errors.Is(err, gridstat.ErrNoData) {
		fmt.Fprintf(w, "WARNING: File contains NO valid data (all masked or NaN).\n")
		return fmt.Errorf("on file %q: %w", name, err)
	}
	if err != nil {
		return fmt.Errorf("on file %q: %w", name, err)
	}

	fmt.Fprintf(w, "Valid cells: %d\n", s.Count)
	fmt.Fprintf(w, "Min: %.4f\n", s.Min)
	fmt.Fprintf(w, "Max: %.4f\n", s.Max)
	fmt.Fprintf(w, "Mean: %.4f\n", s.Mean)
	fmt.Fprintf(w, "Std Dev: %.4f\n", s.Std)
	for _, t := range s.Thresholds() {
		f, _ := s.AreaFraction(t)
		fmt.Fprintf(w, "%% Area > %g: %.2f\n", t, f*100)
	}
	for _, f := range s.Flags() {
		fmt.Fprintf(w, "%s\n", f.Message())
	}

	if !noHist {
		hist := p.OutputFile(name, "_hist.png")
		if err := chart.SaveHistogram(hist, vals, p.Bins(), "Histogram: "+base); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved histogram to: %s\n", filepath.Base(hist))
	}

	return shapeErr
}

func printInfo(w io.Writer, g *raster.Grid) {
	fmt.Fprintf(w, "Driver: %s\n", g.Driver)
	fmt.Fprintf(w, "Size: %dx%d\n", g.Cols(), g.Rows())
	fmt.Fprintf(w, "Type: %s\n", g.SampleType())

	crs := g.CRS
	if crs == "" {
		crs = "None"
	}
	fmt.Fprintf(w, "CRS: %s\n", crs)

	if nd, ok := g.NoData(); ok {
		fmt.Fprintf(w, "NoData Value: %g\n", nd)
	} else {
		fmt.Fprintf(w, "NoData Value: None\n")
	}

	if b, ok := g.Bounds(); ok {
		fmt.Fprintf(w, "Extent: [%g, %g] - [%g, %g]\n", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
	}
}
