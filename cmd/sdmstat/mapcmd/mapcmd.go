// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mapcmd implements a command to draw
// a map image of each grid file of a project.
package mapcmd

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/sdmstat/batch"
	"github.com/js-arias/sdmstat/mask"
	"github.com/js-arias/sdmstat/probmap"
	"github.com/js-arias/sdmstat/project"
)

var Command = &command.Command{
	Usage: `map [--min <value>] [--max <value>] [--nomask]
	[--scale <color-scale>] <project-file>`,
	Short: "draw a map of each grid file",
	Long: `
Command map reads the grid files of an SDMStat project and draws an image map
of each grid, with a pixel for each grid cell, using a fixed color scale.

The argument of the command is the name of the project file.

The images are saved in the output directory of the project, using the name
of the grid file with the suffix "_map.png".

By default, the cells that are not valid in the reference grid are not drawn.
If the flag --nomask is defined, all the cells with valid values will be
drawn.

By default, the color scale is fixed between 0 and 1; use the flags --min and
--max to define a different scale. By default, the color gradient is defined
by the scale parameter of the project. Use the flag --scale to define a
different color gradient. Valid scale values are:

	- rdylgn      the red-yellow-green diverging scale of ColorBrewer
	              <https://colorbrewer2.org>
	- rainbow     from purple to red
	        <https://personal.sron.nl/~pault/#fig:scheme_rainbow_smooth>
	- incandescent
		<https://personal.sron.nl/~pault/#fig:scheme_incandescent>
	- iridescent  <https://personal.sron.nl/~pault/#fig:scheme_iridescent>
	- gray        a gray scale from light gray to black.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var minFlag float64
var maxFlag float64
var noMask bool
var scale string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&minFlag, "min", 0, "")
	c.Flags().Float64Var(&maxFlag, "max", 1, "")
	c.Flags().BoolVar(&noMask, "nomask", false, "")
	c.Flags().StringVar(&scale, "scale", "", "")
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
	if scale == "" {
		scale = p.Scale()
	}
	gr, err := probmap.NewGradient(scale)
	if err != nil {
		return err
	}
	files, err := p.Files()
	if err != nil {
		return err
	}

	var m *mask.Mask
	if !noMask {
		m, _, err = p.Mask(files)
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(p.Output(), 0o755); err != nil {
		return err
	}

	rep := batch.Run(files, func(name string) error {
		g, err := p.ReadGrid(name)
		if err != nil {
			return err
		}
		if m != nil {
			g, err = m.Apply(g)
			if err != nil {
				return fmt.Errorf("on file %q: %w", name, err)
			}
		}

		img := &probmap.Image{
			Grid:     g,
			Min:      minFlag,
			Max:      maxFlag,
			Gradient: gr,
		}
		img.Format()

		out := p.OutputFile(name, "_map.png")
		if err := writeImage(out, img); err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "Saved map to: %s\n", out)
		return nil
	}, batch.NewLogger(c.Stderr()))

	rep.Print(c.Stdout())
	return nil
}

func writeImage(name string, img image.Image) (err error) {
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

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("when encoding image file %q: %v", name, err)
	}
	return nil
}
