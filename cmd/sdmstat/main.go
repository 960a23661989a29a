// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// SDMStat is a tool for the statistics
// of species distribution model outputs.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/sdmstat/cmd/sdmstat/analyze"
	"github.com/js-arias/sdmstat/cmd/sdmstat/code"
	"github.com/js-arias/sdmstat/cmd/sdmstat/compare"
	"github.com/js-arias/sdmstat/cmd/sdmstat/mapcmd"
	"github.com/js-arias/sdmstat/cmd/sdmstat/maskcmd"
	"github.com/js-arias/sdmstat/cmd/sdmstat/prj"
	"github.com/js-arias/sdmstat/cmd/sdmstat/set"
	"github.com/js-arias/sdmstat/cmd/sdmstat/table"
)

var app = &command.Command{
	Usage: "sdmstat <command> [<argument>...]",
	Short: "a tool for the statistics of species distribution models",
}

func init() {
	app.Add(analyze.Command)
	app.Add(code.Command)
	app.Add(compare.Command)
	app.Add(mapcmd.Command)
	app.Add(maskcmd.Command)
	app.Add(prj.Command)
	app.Add(set.Command)
	app.Add(table.Command)
}

func main() {
	app.Main()
}
