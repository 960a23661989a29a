// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package summary implements a summary table
// of the statistics of a batch of scenarios,
// with the percentage change of each scenario
// relative to a baseline scenario.
package summary

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/js-arias/sdmstat/gridstat"
)

// NoValidData is the marker used in the output
// for scenarios without valid data.
const NoValidData = "no valid data"

// A Row is the summary of a scenario.
type Row struct {
	Scenario string

	// NoData is true if the scenario
	// does not have valid data.
	NoData bool

	Mean float64
	Max  float64

	// Area is the percentage of the reference area
	// above each threshold.
	Area []float64
}

// A Table is a summary table.
type Table struct {
	// ID is an identifier of the run
	// that produced the table.
	ID string

	// Date is the creation time of the table.
	Date time.Time

	thresholds []float64
	rows       []Row
	base       int
}

// New creates a new table
// with the given thresholds.
func New(thresholds []float64) *Table {
	if len(thresholds) == 0 {
		thresholds = gridstat.DefaultThresholds
	}
	return &Table{
		ID:         uuid.NewString(),
		Date:       time.Now(),
		thresholds: append([]float64(nil), thresholds...),
	}
}

// Add adds a scenario to the table.
// Area fractions are taken from the statistics record
// for the thresholds of the table.
func (t *Table) Add(scenario string, s gridstat.Stats) {
	r := Row{
		Scenario: scenario,
		Mean:     s.Mean,
		Max:      s.Max,
		Area:     make([]float64, len(t.thresholds)),
	}
	for i, th := range t.thresholds {
		f, _ := s.AreaFraction(th)
		r.Area[i] = f * 100
	}
	t.rows = append(t.rows, r)
}

// AddNoData adds a scenario without valid data.
func (t *Table) AddNoData(scenario string) {
	t.rows = append(t.rows, Row{
		Scenario: scenario,
		NoData:   true,
	})
}

// SetBaseline sets the baseline row
// used for the percentage changes.
// By default the baseline is the first row.
func (t *Table) SetBaseline(scenario string) error {
	for i, r := range t.rows {
		if r.Scenario == scenario {
			t.base = i
			return nil
		}
	}
	return fmt.Errorf("baseline scenario %q not found", scenario)
}

// Baseline returns the baseline row.
func (t *Table) Baseline() (Row, bool) {
	if t.base >= len(t.rows) {
		return Row{}, false
	}
	return t.rows[t.base], true
}

// Thresholds returns the thresholds of the table.
func (t *Table) Thresholds() []float64 {
	return t.thresholds
}

// Rows returns the rows of the table.
func (t *Table) Rows() []Row {
	return t.rows
}

// Change returns the percentage change
// of a value relative to a base value.
// If base is zero,
// or any of the values is not finite,
// it returns 0.
func Change(v, base float64) float64 {
	if base == 0 || !isFinite(v) || !isFinite(base) {
		return 0
	}
	c := (v - base) / base * 100
	if !isFinite(c) {
		return 0
	}
	return c
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MeanChange returns the percentage change
// of the mean of a row
// relative to the baseline.
func (t *Table) MeanChange(r Row) float64 {
	b, ok := t.Baseline()
	if !ok || b.NoData || r.NoData {
		return 0
	}
	return Change(r.Mean, b.Mean)
}

// AreaChange returns the percentage change
// of the area above the i-th threshold of a row
// relative to the baseline.
func (t *Table) AreaChange(r Row, i int) float64 {
	b, ok := t.Baseline()
	if !ok || b.NoData || r.NoData {
		return 0
	}
	return Change(r.Area[i], b.Area[i])
}

// Header returns the column names of the table.
func (t *Table) Header() []string {
	h := []string{
		"Scenario",
		"Mean Suitability",
		"Max Suitability",
	}
	for _, th := range t.thresholds {
		h = append(h, fmt.Sprintf("%% Area > %g", th))
	}
	h = append(h, "Mean Change (%)")
	for _, th := range t.thresholds {
		h = append(h, fmt.Sprintf("%% Area > %g Change (%%)", th))
	}
	return h
}

// record returns the fields of a row
// using the given number of decimals.
func (t *Table) record(r Row, prec int) []string {
	rec := make([]string, 0, 4+2*len(t.thresholds))
	rec = append(rec, r.Scenario)
	if r.NoData {
		for i := 1; i < 4+2*len(t.thresholds); i++ {
			rec = append(rec, NoValidData)
		}
		return rec
	}

	format := func(v float64) string {
		return strconv.FormatFloat(v, 'f', prec, 64)
	}
	rec = append(rec, format(r.Mean), format(r.Max))
	for _, a := range r.Area {
		rec = append(rec, format(a))
	}
	rec = append(rec, format(t.MeanChange(r)))
	for i := range r.Area {
		rec = append(rec, format(t.AreaChange(r, i)))
	}
	return rec
}
