// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package set implements a command to set
// the parameters of a project.
package set

import (
	"errors"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/sdmstat/project"
)

var Command = &command.Command{
	Usage: "set <project-file> <parameter> [<value>]",
	Short: "set a parameter of a project",
	Long: `
Command set sets the value of a parameter in an SDMStat project. If the
project file does not exist, it will be created.

The first argument of the command is the name of the project file. The second
argument is the name of the parameter, and the third argument is the value of
the parameter. If no value is given, the parameter will be removed from the
project, so its default value will be used.

Valid parameters are:

	input       the directory with the grid files. Default: the
	            current directory.
	output      the directory for the output files. Default: the
	            input directory.
	extension   the extension of the grid files. Default: ".tif".
	token       a string that must be present in the name of the grid
	            files (e.g., "avocado").
	reference   the token of the reference (baseline) grid.
	            Default: "current".
	order       the scenario order. See "sdmstat help scenario-order".
	thresholds  a comma separated list of thresholds for the area
	            fractions. Default: "0.5,0.7".
	background  the value at or below which a cell of the reference
	            grid is not valid. Default: 0.
	nodata      a no-data value that replaces the value defined in
	            the grid files.
	bins        the number of bins of the histograms. Default: 50.
	scale       the color scale of the maps. Default: "rdylgn".

Here is an example:

	$ sdmstat set thesis.tab input Thesis_SDM
	$ sdmstat set thesis.tab token avocado
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if len(args) < 2 {
		return c.UsageError("expecting parameter name")
	}

	name := args[0]
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p = project.New()
		p.SetName(name)
	} else if err != nil {
		return err
	}

	par := project.Param(strings.ToLower(args[1]))
	v := strings.Join(args[2:], " ")
	if err := p.Set(par, v); err != nil {
		return err
	}

	return p.Write()
}
