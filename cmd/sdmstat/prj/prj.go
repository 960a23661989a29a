// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/sdmstat/project"
	"github.com/js-arias/sdmstat/scenario"
)

var Command = &command.Command{
	Usage: "prj <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads an SDMStat project and prints the values of the project
parameters, and the list of grid files selected by the project, in the
scenario order, into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	w := c.Stdout()
	fmt.Fprintf(w, "Project: %s\n", p.Name())
	fmt.Fprintf(w, "Parameters:\n")
	for _, par := range project.Params {
		v := value(p, par)
		if p.Get(par) == "" {
			v += " (default)"
		}
		fmt.Fprintf(w, "\t%-12s %s\n", par, v)
	}
	fmt.Fprintf(w, "\n")

	files, err := p.Files()
	if err != nil {
		return err
	}
	ref, ok := scenario.Reference(files, p.Reference())

	order := p.Order()
	fmt.Fprintf(w, "Grid files: %d\n", len(files))
	for _, f := range files {
		mark := ""
		if ok && f == ref {
			mark = " [reference]"
		}
		rule := "-"
		if r := order.Rank(f); r < len(order) {
			rule = order[r].String()
		}
		fmt.Fprintf(w, "\t%s\t%s\t%s%s\n", filepath.Base(f), p.Label(f), rule, mark)
	}
	if !ok {
		fmt.Fprintf(c.Stderr(), "WARNING: %v: token %q\n", project.ErrNoReference, p.Reference())
	}
	return nil
}

func value(p *project.Project, par project.Param) string {
	switch par {
	case project.Input:
		return p.Input()
	case project.Output:
		return p.Output()
	case project.Extension:
		return p.Extension()
	case project.Token:
		return strconv.Quote(p.Token())
	case project.Reference:
		return p.Reference()
	case project.Order:
		return p.Order().String()
	case project.Thresholds:
		th := make([]string, 0, len(p.Thresholds()))
		for _, t := range p.Thresholds() {
			th = append(th, strconv.FormatFloat(t, 'f', -1, 64))
		}
		return strings.Join(th, ",")
	case project.Background:
		return strconv.FormatFloat(p.Background(), 'f', -1, 64)
	case project.NoData:
		if nd, ok := p.NoData(); ok {
			return strconv.FormatFloat(nd, 'f', -1, 64)
		}
		return "from file"
	case project.Bins:
		return strconv.Itoa(p.Bins())
	case project.Scale:
		return p.Scale()
	}
	return p.Get(par)
}
