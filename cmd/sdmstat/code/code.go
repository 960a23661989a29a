// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package code implements a command to print
// the code cells of a notebook.
package code

import (
	"github.com/js-arias/command"
	"github.com/js-arias/sdmstat/notebook"
)

var Command = &command.Command{
	Usage: "code <notebook-file>",
	Short: "print the code cells of a notebook",
	Long: `
Command code reads a notebook document (for example, a Jupyter notebook), and
prints the source of each code cell into the standard output, labeled with the
position of the cell in the notebook (starting from 0).

The argument of the command is the name of the notebook file.

If the notebook document is malformed, an error is reported and nothing is
printed.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting notebook file")
	}

	nb, err := notebook.ReadFile(args[0])
	if err != nil {
		return err
	}
	return nb.Print(c.Stdout())
}
