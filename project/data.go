// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/js-arias/sdmstat/mask"
	"github.com/js-arias/sdmstat/raster"
	"github.com/js-arias/sdmstat/scenario"
)

// ErrNoReference is returned when no grid file
// matches the reference token.
var ErrNoReference = errors.New("reference grid not found")

// ReadGrid reads a grid file.
// If the project defines a no-data value,
// it replaces the value defined in the file.
func (p *Project) ReadGrid(name string) (*raster.Grid, error) {
	g, err := raster.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if nd, ok := p.NoData(); ok {
		g.SetNoData(nd)
	}
	return g, nil
}

// Mask reads the reference grid
// from a list of files
// and returns its validity mask,
// and the name of the reference file.
func (p *Project) Mask(files []string) (*mask.Mask, string, error) {
	ref, ok := scenario.Reference(files, p.Reference())
	if !ok {
		return nil, "", fmt.Errorf("%w: token %q", ErrNoReference, p.Reference())
	}
	g, err := p.ReadGrid(ref)
	if err != nil {
		return nil, ref, err
	}
	return mask.FromGrid(g, p.Background()), ref, nil
}

// Label returns the scenario label of a file.
func (p *Project) Label(name string) string {
	return scenario.Label(name, p.Token(), p.Extension())
}

// OutputFile returns the name of an output file
// for a grid file,
// using the given suffix
// (e.g., "_hist.png").
func (p *Project) OutputFile(name, suffix string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if strings.EqualFold(ext, p.Extension()) {
		base = base[:len(base)-len(ext)]
	}
	return filepath.Join(p.Output(), base+suffix)
}

// Prefix returns the prefix used for the output files
// of the whole batch.
func (p *Project) Prefix() string {
	if t := strings.Trim(p.Token(), "_- "); t != "" {
		return t
	}
	return "sdmstat"
}
