// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package maskcmd implements a command to write
// the grid files of a project
// with the cells outside the validity mask
// set as no-data.
package maskcmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/js-arias/command"
	"github.com/js-arias/sdmstat/batch"
	"github.com/js-arias/sdmstat/project"
	"github.com/js-arias/sdmstat/raster"
)

var Command = &command.Command{
	Usage: "mask [--nodata <value>] [-o|--output <directory>] <project-file>",
	Short: "write masked grid files",
	Long: `
Command mask reads the grid files of an SDMStat project, and writes a copy of
each grid in which the cells that are not valid in the reference grid are set
as no-data.

The argument of the command is the name of the project file.

The grids are written as single band GeoTIFF files with 32-bit floating point
values, and keep the georeference of the original files. By default, the
no-data cells are written as NaN values. Use the flag --nodata to define a
different no-data value.

By default, the files are written in the "masked" directory inside the output
directory of the project, using the same name of the original files. Use the
flag -o, or --output, to define a different directory.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var noData float64
var output string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&noData, "nodata", math.NaN(), "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
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
	fmt.Fprintf(c.Stdout(), "Created mask from %s. Valid pixels: %d\n", filepath.Base(ref), m.Count())

	if output == "" {
		output = filepath.Join(p.Output(), "masked")
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return err
	}

	rep := batch.Run(files, func(name string) error {
		g, err := p.ReadGrid(name)
		if err != nil {
			return err
		}
		mg, err := m.Apply(g)
		if err != nil {
			return fmt.Errorf("on file %q: %w", name, err)
		}

		for y := 0; y < mg.Rows(); y++ {
			for x := 0; x < mg.Cols(); x++ {
				v := mg.At(x, y)
				if math.IsNaN(v) || mg.IsNoData(v) {
					mg.Set(x, y, noData)
				}
			}
		}
		mg.SetNoData(noData)

		out := filepath.Join(output, filepath.Base(name))
		if out == name {
			return fmt.Errorf("on file %q: output file is the input file", name)
		}
		if err := raster.WriteFile(out, mg); err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "Saved masked grid to: %s\n", out)
		return nil
	}, batch.NewLogger(c.Stderr()))

	rep.Print(c.Stdout())
	return nil
}
