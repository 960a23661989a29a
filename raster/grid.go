// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package raster implements single-band raster grids,
// and the reading and writing of grids
// stored as GeoTIFF files.
package raster

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// SampleFormat is the numeric interpretation
// of the samples stored in a raster file.
type SampleFormat int

// Valid sample formats
// (as defined by the TIFF SampleFormat tag).
const (
	Uint  SampleFormat = 1
	Int   SampleFormat = 2
	Float SampleFormat = 3
)

func (sf SampleFormat) String() string {
	switch sf {
	case Uint:
		return "uint"
	case Int:
		return "int"
	case Float:
		return "float"
	}
	return fmt.Sprintf("SampleFormat(%d)", int(sf))
}

// A Grid is a two-dimensional array of samples
// representing a single raster layer.
//
// Values are stored in row-major order,
// with the row 0 at the top of the image.
type Grid struct {
	cols, rows int
	vals       []float64

	nodata    float64
	hasNoData bool

	bounds orb.Bound
	geo    bool

	// Driver is the name of the format
	// used to read the grid.
	Driver string

	// Bits is the number of bits per sample
	// in the source file.
	Bits int

	// Format is the sample format
	// in the source file.
	Format SampleFormat

	// CRS is the coordinate reference tag,
	// for example "EPSG:4326".
	// It is empty if undefined.
	CRS string
}

// New creates a new grid
// with the indicated number of columns and rows,
// with all values set to 0.
func New(cols, rows int) *Grid {
	if cols < 0 || rows < 0 {
		panic("raster: negative grid size")
	}
	return &Grid{
		cols:   cols,
		rows:   rows,
		vals:   make([]float64, cols*rows),
		Bits:   64,
		Format: Float,
	}
}

// FromRows creates a new grid
// from a slice of rows.
// All rows must have the same length.
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	g := New(len(rows[0]), len(rows))
	for y, r := range rows {
		if len(r) != g.cols {
			return nil, fmt.Errorf("raster: row %d: got %d columns, want %d", y, len(r), g.cols)
		}
		copy(g.vals[y*g.cols:], r)
	}
	return g, nil
}

// Cols returns the number of columns
// (the width) of the grid.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of rows
// (the height) of the grid.
func (g *Grid) Rows() int { return g.rows }

// Len returns the number of cells in the grid.
func (g *Grid) Len() int { return len(g.vals) }

// At returns the value at the given cell.
func (g *Grid) At(x, y int) float64 {
	return g.vals[y*g.cols+x]
}

// Set sets the value of the given cell.
func (g *Grid) Set(x, y int, v float64) {
	g.vals[y*g.cols+x] = v
}

// Values returns the values of the grid
// in row-major order.
// The returned slice must not be modified.
func (g *Grid) Values() []float64 {
	return g.vals
}

// NoData returns the no-data sentinel
// of the grid,
// and true if the sentinel is defined.
func (g *Grid) NoData() (float64, bool) {
	return g.nodata, g.hasNoData
}

// SetNoData sets the no-data sentinel of the grid.
//
// If the grid was read from 32-bit floating point samples,
// the sentinel is rounded to 32-bit precision,
// so it matches the cells that store it
// (for example -3.4e+38, a common sentinel of R rasters).
func (g *Grid) SetNoData(v float64) {
	if g.Format == Float && g.Bits == 32 && math.Abs(v) <= math.MaxFloat32 {
		v = float64(float32(v))
	}
	g.nodata = v
	g.hasNoData = true
}

// ClearNoData removes the no-data sentinel
// of the grid.
func (g *Grid) ClearNoData() {
	g.nodata = 0
	g.hasNoData = false
}

// IsNoData returns true if v is the no-data sentinel
// of the grid.
func (g *Grid) IsNoData(v float64) bool {
	if !g.hasNoData {
		return false
	}
	if math.IsNaN(g.nodata) {
		return math.IsNaN(v)
	}
	return v == g.nodata
}

// Bounds returns the geographic extent of the grid,
// and true if the extent is defined.
func (g *Grid) Bounds() (orb.Bound, bool) {
	return g.bounds, g.geo
}

// SetBounds sets the geographic extent of the grid.
func (g *Grid) SetBounds(b orb.Bound) {
	g.bounds = b
	g.geo = true
}

// SameShape returns true if both grids
// have the same number of columns and rows.
func (g *Grid) SameShape(o *Grid) bool {
	return g.cols == o.cols && g.rows == o.rows
}

// Copy returns a copy of the grid.
func (g *Grid) Copy() *Grid {
	c := *g
	c.vals = make([]float64, len(g.vals))
	copy(c.vals, g.vals)
	return &c
}

// SampleType returns a name for the sample type
// of the source data,
// for example "float32".
func (g *Grid) SampleType() string {
	return fmt.Sprintf("%s%d", g.Format, g.Bits)
}
