// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package project implements reading and writing
// of SDMStat project files.
//
// An SDMStat project is a tab-delimited file (TSV)
// used to store the parameters of an analysis:
// where the grid files are found,
// how they are selected and ordered,
// and how statistics are calculated.
package project

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/sdmstat/gridstat"
	"github.com/js-arias/sdmstat/probmap"
	"github.com/js-arias/sdmstat/scenario"
)

// Param is a keyword to identify
// a parameter in a project.
type Param string

// Valid parameters.
const (
	// Input is the directory with the grid files.
	Input Param = "input"

	// Output is the directory for the output files.
	Output Param = "output"

	// Extension is the file extension of the grid files.
	Extension Param = "extension"

	// Token is a string that must be present
	// in the name of the grid files.
	Token Param = "token"

	// Reference is the token used to identify
	// the reference (baseline) grid.
	Reference Param = "reference"

	// Order is the scenario order.
	Order Param = "order"

	// Thresholds is a comma separated list
	// of thresholds for area fractions.
	Thresholds Param = "thresholds"

	// Background is the value at or below which
	// a cell of the reference grid is not valid.
	Background Param = "background"

	// NoData is a no-data value
	// that replaces the value defined in the grid files.
	NoData Param = "nodata"

	// Bins is the number of bins of the histograms.
	Bins Param = "bins"

	// Scale is the color scale used for maps.
	Scale Param = "scale"
)

// Params is the list of valid parameters.
var Params = []Param{
	Input,
	Output,
	Extension,
	Token,
	Reference,
	Order,
	Thresholds,
	Background,
	NoData,
	Bins,
	Scale,
}

// Default values.
const (
	DefaultExtension = ".tif"
	DefaultReference = "current"
	DefaultBins      = 50
	DefaultScale     = "rdylgn"
)

// A Project represents a collection of parameters.
type Project struct {
	name string
	vals map[Param]string

	order      scenario.Order
	thresholds []float64
	background float64
	nodata     float64
	bins       int
}

// New creates a new empty project.
func New() *Project {
	return &Project{
		vals:  make(map[Param]string),
		order: scenario.DefaultOrder,
		bins:  DefaultBins,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a project file from a TSV file.
//
// The TSV must contain the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# sdmstat project
//	parameter	value
//	input	Thesis_SDM
//	token	avocado
//	reference	current
//	thresholds	0.5,0.7
func Read(name string) (*Project, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	p := New()
	p.name = name
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		f := "parameter"
		par := Param(strings.ToLower(strings.TrimSpace(row[fields[f]])))

		f = "value"
		if err := p.Set(par, row[fields[f]]); err != nil {
			return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
		}
	}

	return p, nil
}

// Name returns the file name of the project.
func (p *Project) Name() string {
	return p.name
}

// SetName sets the project file name.
func (p *Project) SetName(name string) {
	p.name = name
}

// Get returns the value of a parameter
// as it was defined in the project.
// It returns an empty string
// if the parameter is undefined.
func (p *Project) Get(par Param) string {
	return p.vals[par]
}

// Set sets the value of a parameter.
// If the value is empty,
// the parameter will be removed
// (and the default value will be used).
func (p *Project) Set(par Param, v string) error {
	v = strings.TrimSpace(v)

	switch par {
	case Input, Output, Token, Reference:
	case Extension:
		if v != "" && !strings.HasPrefix(v, ".") {
			v = "." + v
		}
	case Order:
		o := scenario.DefaultOrder
		if v != "" {
			var err error
			o, err = scenario.ParseOrder(v)
			if err != nil {
				return err
			}
		}
		p.order = o
	case Thresholds:
		th, err := parseThresholds(v)
		if err != nil {
			return err
		}
		p.thresholds = th
	case Background:
		b := 0.0
		if v != "" {
			var err error
			b, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("parameter %q: %v", par, err)
			}
		}
		p.background = b
	case NoData:
		if v != "" {
			nd, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("parameter %q: %v", par, err)
			}
			p.nodata = nd
		}
	case Bins:
		b := DefaultBins
		if v != "" {
			var err error
			b, err = strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parameter %q: %v", par, err)
			}
			if b < 1 {
				return fmt.Errorf("parameter %q: invalid number of bins: %d", par, b)
			}
		}
		p.bins = b
	case Scale:
		if v != "" {
			v = strings.ToLower(v)
			if _, err := probmap.NewGradient(v); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown parameter %q", par)
	}

	if v == "" {
		delete(p.vals, par)
		return nil
	}
	p.vals[par] = v
	return nil
}

func parseThresholds(v string) ([]float64, error) {
	if v == "" {
		return nil, nil
	}
	var th []float64
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		t, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %v", Thresholds, err)
		}
		if math.IsNaN(t) {
			return nil, fmt.Errorf("parameter %q: invalid threshold %q", Thresholds, s)
		}
		th = append(th, t)
	}
	return th, nil
}

// Input returns the input directory.
func (p *Project) Input() string {
	if v := p.vals[Input]; v != "" {
		return v
	}
	return "."
}

// Output returns the output directory.
// By default it is the input directory.
func (p *Project) Output() string {
	if v := p.vals[Output]; v != "" {
		return v
	}
	return p.Input()
}

// Extension returns the extension of the grid files.
func (p *Project) Extension() string {
	if v := p.vals[Extension]; v != "" {
		return v
	}
	return DefaultExtension
}

// Token returns the token that must be present
// in the name of the grid files.
func (p *Project) Token() string {
	return p.vals[Token]
}

// Reference returns the token of the reference grid.
func (p *Project) Reference() string {
	if v := p.vals[Reference]; v != "" {
		return v
	}
	return DefaultReference
}

// Order returns the scenario order.
func (p *Project) Order() scenario.Order {
	return p.order
}

// Thresholds returns the thresholds
// for the area fractions.
func (p *Project) Thresholds() []float64 {
	if len(p.thresholds) == 0 {
		return gridstat.DefaultThresholds
	}
	return p.thresholds
}

// Background returns the background value
// used to build the validity mask.
func (p *Project) Background() float64 {
	return p.background
}

// NoData returns the no-data value
// defined in the project,
// and true if it is defined.
func (p *Project) NoData() (float64, bool) {
	if _, ok := p.vals[NoData]; !ok {
		return 0, false
	}
	return p.nodata, true
}

// Bins returns the number of bins
// for the histograms.
func (p *Project) Bins() int {
	return p.bins
}

// Scale returns the name of the color scale.
func (p *Project) Scale() string {
	if v := p.vals[Scale]; v != "" {
		return v
	}
	return DefaultScale
}

// Files returns the grid files selected by the project,
// sorted by the scenario order.
func (p *Project) Files() ([]string, error) {
	names, err := scenario.Select(p.Input(), p.Extension(), p.Token())
	if err != nil {
		return nil, err
	}
	p.Order().Sort(names)
	return names, nil
}

// Write writes a project into a file.
func (p *Project) Write() (err error) {
	f, err := os.Create(p.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# sdmstat project\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", p.name, err)
	}

	for _, par := range Params {
		v, ok := p.vals[par]
		if !ok {
			continue
		}
		row := []string{
			string(par),
			v,
		}
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", p.name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", p.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", p.name, err)
	}
	return nil
}
