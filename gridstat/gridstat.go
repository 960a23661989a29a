// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package gridstat implements descriptive statistics
// over the valid cells of a raster grid.
//
// A cell is valid if it is finite,
// it is different from the no-data value of the grid,
// and, if a validity mask is given,
// the mask is true for the cell.
package gridstat

import (
	"errors"
	"fmt"
	"math"

	"github.com/js-arias/sdmstat/mask"
	"github.com/js-arias/sdmstat/raster"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoData is returned when a grid
// does not have valid cells.
var ErrNoData = errors.New("no valid data")

// DefaultThresholds are the thresholds
// used for area fractions
// if no thresholds are defined.
var DefaultThresholds = []float64{0.5, 0.7}

// Options are the options used to calculate
// the statistics of a grid.
type Options struct {
	// Mask is an optional validity mask.
	// It must have the same shape of the grid.
	Mask *mask.Mask

	// Thresholds used for the area fractions.
	Thresholds []float64

	// Reference is the number of valid cells
	// used as the denominator of the area fractions.
	// If zero,
	// the number of valid cells of the mask is used,
	// and if there is no mask,
	// the number of valid cells of the grid.
	Reference int
}

// Stats is a statistics record
// of the valid cells of a grid.
type Stats struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64

	// Std is the population standard deviation
	// (i.e., the sum of squares divided by Count).
	Std float64

	// Reference is the denominator
	// of the area fractions.
	Reference int

	thresholds []float64
	above      []int
}

// Values returns the values of the valid cells of a grid.
func Values(g *raster.Grid, opts Options) ([]float64, error) {
	if opts.Mask != nil {
		if err := opts.Mask.Check(g); err != nil {
			return nil, err
		}
	}

	vals := make([]float64, 0, g.Len())
	for i, v := range g.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if g.IsNoData(v) {
			continue
		}
		if opts.Mask != nil && !opts.Mask.IsValid(i) {
			continue
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// Compute calculates the statistics of the valid cells
// of a grid.
// If the grid has no valid cells,
// it will return ErrNoData.
func Compute(g *raster.Grid, opts Options) (Stats, error) {
	vals, err := Values(g, opts)
	if err != nil {
		return Stats{}, err
	}
	return FromValues(vals, opts)
}

// FromValues calculates the statistics
// from a set of valid values.
func FromValues(vals []float64, opts Options) (Stats, error) {
	if len(vals) == 0 {
		return Stats{}, ErrNoData
	}

	th := opts.Thresholds
	if th == nil {
		th = DefaultThresholds
	}
	s := Stats{
		Count:      len(vals),
		Min:        floats.Min(vals),
		Max:        floats.Max(vals),
		Reference:  opts.Reference,
		thresholds: append([]float64(nil), th...),
		above:      make([]int, len(th)),
	}
	s.Mean, s.Std = stat.PopMeanStdDev(vals, nil)

	// numerical rounding might place the mean
	// outside of the range for flat grids
	s.Mean = math.Max(s.Min, math.Min(s.Max, s.Mean))

	if s.Reference <= 0 {
		s.Reference = s.Count
		if opts.Mask != nil {
			s.Reference = opts.Mask.Count()
		}
	}

	for _, v := range vals {
		for i, t := range s.thresholds {
			if v > t {
				s.above[i]++
			}
		}
	}
	return s, nil
}

// Thresholds returns the thresholds
// used for the area fractions.
func (s Stats) Thresholds() []float64 {
	return s.thresholds
}

// Above returns the number of valid cells
// with a value greater than the given threshold.
// The threshold must be one of the thresholds
// used to calculate the statistics.
func (s Stats) Above(t float64) (int, bool) {
	for i, v := range s.thresholds {
		if v == t {
			return s.above[i], true
		}
	}
	return 0, false
}

// AreaFraction returns the fraction of the reference cells
// with a value greater than the given threshold.
// The threshold must be one of the thresholds
// used to calculate the statistics.
func (s Stats) AreaFraction(t float64) (float64, bool) {
	n, ok := s.Above(t)
	if !ok {
		return 0, false
	}
	if s.Reference == 0 {
		return 0, true
	}
	return float64(n) / float64(s.Reference), true
}

// A Flag is an advisory diagnostic
// of a statistics record.
type Flag int

// Valid diagnostic flags.
const (
	// Flat indicates that all valid cells
	// have the same value.
	Flat Flag = iota + 1

	// OutOfRange indicates that the maximum
	// is greater than 1,
	// so the values are not probabilities.
	OutOfRange

	// Negative indicates that there are
	// negative values.
	Negative
)

func (f Flag) String() string {
	switch f {
	case Flat:
		return "flat"
	case OutOfRange:
		return "out of range"
	case Negative:
		return "negative"
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// Message returns a human readable message
// for the flag.
func (f Flag) Message() string {
	switch f {
	case Flat:
		return "WARNING: image is FLAT (all values are the same)"
	case OutOfRange:
		return "NOTE: max value > 1.0, values might not be probabilities"
	case Negative:
		return "NOTE: negative values found"
	}
	return f.String()
}

// Flags returns the diagnostic flags
// of a statistics record.
func (s Stats) Flags() []Flag {
	var fl []Flag
	if s.Min == s.Max {
		fl = append(fl, Flat)
	}
	if s.Max > 1 {
		fl = append(fl, OutOfRange)
	}
	if s.Min < 0 {
		fl = append(fl, Negative)
	}
	return fl
}

// Has returns true if the statistics record
// has the given flag.
func (s Stats) Has(f Flag) bool {
	for _, v := range s.Flags() {
		if v == f {
			return true
		}
	}
	return false
}
