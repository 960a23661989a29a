// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package compare implements a command to draw
// a multi-panel image to compare the grid files
// of a project.
package compare

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/sdmstat/batch"
	"github.com/js-arias/sdmstat/chart"
	"github.com/js-arias/sdmstat/mask"
	"github.com/js-arias/sdmstat/probmap"
	"github.com/js-arias/sdmstat/project"
)

var Command = &command.Command{
	Usage: `compare [--cols <number>] [--min <value>] [--max <value>]
	[--title <text>] [-o|--output <file>] <project-file>`,
	Short: "draw an image to compare the grid files",
	Long: `
Command compare reads the grid files of an SDMStat project and draws a
multi-panel image with a map of each grid, in the scenario order, using a
shared color scale.

The argument of the command is the name of the project file.

The cells that are not valid in the reference grid are not drawn. If the
reference grid can not be read, all the cells of each grid will be drawn. Each
panel shows the maximum and the mean of the valid cells of the grid. Panels of
grids without valid data, or that can not be read, are marked.

By default, the color scale is fixed between 0 and 1; use the flags --min and
--max to define a different scale. The color gradient is defined by the scale
parameter of the project. By default, three panels are drawn in each row; use
the flag --cols to define a different number of columns.

By default, the image will be saved in the output directory of the project,
named with the project token and the suffix "_suitability_comparison.png".
Use the flag -o, or --output, to define a different file name. Use the flag
--title to set the title of the image.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var colsFlag int
var minFlag float64
var maxFlag float64
var output string
var title string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&colsFlag, "cols", chart.DefaultCols, "")
	c.Flags().Float64Var(&minFlag, "min", 0, "")
	c.Flags().Float64Var(&maxFlag, "max", 1, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().StringVar(&title, "title", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if minFlag >= maxFlag {
		return c.UsageError(fmt.Sprintf("invalid color scale [%g, %g]", minFlag, maxFlag))
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	files, err := p.Files()
	if err != nil {
		return err
	}
	gr, err := probmap.NewGradient(p.Scale())
	if err != nil {
		return err
	}

	m, ref, err := p.Mask(files)
	if err != nil {
		fmt.Fprintf(c.Stderr(), "WARNING: unable to create mask: %v\n", err)
		m = nil
	} else {
		fmt.Fprintf(c.Stdout(), "Created mask from %s. Valid pixels: %d\n", filepath.Base(ref), m.Count())
	}

	if title == "" {
		title = fmt.Sprintf("%s Suitability Comparison (Fixed Scale %g-%g)", capitalize(p.Prefix()), minFlag, maxFlag)
	}
	cmp := &chart.Comparison{
		Title:    title,
		Cols:     colsFlag,
		Min:      minFlag,
		Max:      maxFlag,
		Gradient: gr,
	}

	fmt.Fprintf(c.Stdout(), "Plotting %d maps with fixed scale (%g to %g)...\n", len(files), minFlag, maxFlag)
	rep := batch.Run(files, func(name string) error {
		pn, err := panel(p, name, m)
		cmp.Panels = append(cmp.Panels, pn)
		return err
	}, batch.NewLogger(c.Stderr()))

	if output == "" {
		if err := os.MkdirAll(p.Output(), 0o755); err != nil {
			return err
		}
		output = filepath.Join(p.Output(), p.Prefix()+"_suitability_comparison.png")
	}
	if err := cmp.SavePNG(output); err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout(), "Saved comparison map to: %s\n", output)

	rep.Print(c.Stdout())
	return nil
}

func panel(p *project.Project, name string, m *mask.Mask) (chart.Panel, error) {
	pn := chart.Panel{
		Title: strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
	}
	g, err := p.ReadGrid(name)
	if err != nil {
		return pn, err
	}
	pn.Grid = g
	if m == nil {
		return pn, nil
	}

	// a grid with a different shape
	// is drawn without the mask
	mg, err := m.Apply(g)
	if err != nil {
		return pn, fmt.Errorf("on file %q: %w", name, err)
	}
	pn.Grid = mg
	return pn, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
