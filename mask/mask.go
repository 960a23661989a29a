// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mask implements validity masks,
// boolean arrays that indicate which cells of a grid
// are eligible for statistics.
//
// A mask is derived from a reference grid
// (for example, the suitability model of the current climate)
// and it is used, read-only,
// for all the grids of a batch.
package mask

import (
	"errors"
	"fmt"
	"math"

	"github.com/js-arias/sdmstat/raster"
)

// ErrShape is returned when the shape of a grid
// is different from the shape of a mask.
var ErrShape = errors.New("shape mismatch")

// A Mask is a boolean array
// that marks the valid cells of a grid.
type Mask struct {
	cols, rows int
	valid      []bool
	count      int
}

// FromGrid creates a new mask from a reference grid.
// A cell is valid if its value is finite,
// it is not the no-data value of the grid,
// and it is greater than the background value.
func FromGrid(ref *raster.Grid, background float64) *Mask {
	m := &Mask{
		cols:  ref.Cols(),
		rows:  ref.Rows(),
		valid: make([]bool, ref.Len()),
	}
	for i, v := range ref.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if ref.IsNoData(v) {
			continue
		}
		if v <= background {
			continue
		}
		m.valid[i] = true
		m.count++
	}
	return m
}

// Cols returns the number of columns of the mask.
func (m *Mask) Cols() int { return m.cols }

// Rows returns the number of rows of the mask.
func (m *Mask) Rows() int { return m.rows }

// Count returns the number of valid cells.
func (m *Mask) Count() int { return m.count }

// Valid returns true if the given cell is valid.
func (m *Mask) Valid(x, y int) bool {
	return m.valid[y*m.cols+x]
}

// IsValid returns true if the cell
// at the given row-major index is valid.
func (m *Mask) IsValid(i int) bool {
	return m.valid[i]
}

// Check returns an error wrapping ErrShape
// if the grid and the mask have different shapes.
func (m *Mask) Check(g *raster.Grid) error {
	if g.Cols() != m.cols || g.Rows() != m.rows {
		return fmt.Errorf("%w: grid %dx%d, mask %dx%d", ErrShape, g.Cols(), g.Rows(), m.cols, m.rows)
	}
	return nil
}

// Apply returns a copy of the grid
// in which all invalid cells are set to NaN.
func (m *Mask) Apply(g *raster.Grid) (*raster.Grid, error) {
	if err := m.Check(g); err != nil {
		return nil, err
	}

	c := g.Copy()
	for i := range m.valid {
		if m.valid[i] {
			continue
		}
		c.Set(i%m.cols, i/m.cols, math.NaN())
	}
	return c, nil
}
