// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(gridFilesGuide)
	app.Add(projectsGuide)
	app.Add(scenarioOrderGuide)
}

var projectsGuide = &command.Command{
	Usage: "project-files",
	Short: "about project files",
	Long: `
SDMStat uses a project file to keep the parameters of an analysis: where the
grid files are found, how they are selected and ordered, and how statistics
are calculated. This guide explains the structure of the file, but most of
the time, the best and most secure way to edit or view this file is by using
the commands 'sdmstat set' and 'sdmstat prj'.

A project file is a tab-delimited file with the following fields:

	- parameter  the name of the parameter
	- value      the value of the parameter

Here is an example file:

	# sdmstat project
	parameter	value
	input	Thesis_SDM
	token	avocado
	reference	current
	thresholds	0.5,0.7

Undefined parameters use their default values. See 'sdmstat help set' for
the list of valid parameters.
	`,
}

var gridFilesGuide = &command.Command{
	Usage: "grid-files",
	Short: "about grid files",
	Long: `
SDMStat reads grid files produced by species distribution models as GeoTIFF
files. Only the first band of a file is read.

The grid files can be stored as strips or tiles, and can be uncompressed or
compressed with LZW, Deflate, or PackBits, with or without predictors. Cell
values can be unsigned or signed integers (8, 16, 32 or 64 bits) or floating
point values (32 or 64 bits). BigTIFF files are not supported.

The no-data value is taken from the GDAL_NODATA tag of the file, and it can
be replaced by the nodata parameter of the project. The coordinate reference
system and the geographic extent are taken from the GeoTIFF tags.

A cell is valid if it is a finite value different from the no-data value. In
addition, a validity mask is built from the reference grid of the project (by
default, the grid of the current scenario): a cell is valid in the mask if
it is a valid cell of the reference grid with a value greater than the
background parameter of the project (by default 0, i.e., the sea or the
background of the model). All the grids of a project must have the same size
as the reference grid to use the mask.

Grid files are selected from the input directory of the project, by the file
extension and the token of the project. For example, with the token "avocado"
and the extension ".tif" the following files are selected:

	avocado_current.tif
	avocado_2050_ssp245.tif
	avocado_2100_ssp585.tif

The scenario label of each file is its name without the token and the
extension (e.g., "2050_ssp245").
	`,
}

var scenarioOrderGuide = &command.Command{
	Usage: "scenario-order",
	Short: "about the order of the scenarios",
	Long: `
The grid files of a project are sorted using a scenario order. A scenario
order is a list of rules separated by semicolons, and each rule is a list of
tokens separated by plus signs. A file matches a rule if all the tokens of the
rule are in the file name. Files are sorted by the first rule they match, and
files with the same rule are sorted by name. Files that do not match any rule
are placed at the end.

The default order is:

	current;2050+ssp245;2050;2100+ssp245;2100

That is, the current scenario is first, then the scenarios of the 2050s, and
then the scenarios of the 2100s, with the SSP2-4.5 scenario before any other
scenario of the same period.

To define a different order, use the order parameter of the project, for
example:

	$ sdmstat set thesis.tab order "current;2040;2060;2080"
	`,
}
