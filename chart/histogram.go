// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package chart implements the images
// of the statistics of grid files:
// histograms of the cell values
// and multi-panel maps
// to compare a batch of scenarios.
package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultBins is the default number of bins
// of a histogram.
const DefaultBins = 50

// Histogram returns a histogram
// of a set of cell values.
func Histogram(vals []float64, bins int, title string) (*plot.Plot, error) {
	if len(vals) == 0 {
		return nil, fmt.Errorf("histogram %q: empty data", title)
	}
	if bins < 1 {
		bins = DefaultBins
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Pixel Value"
	p.Y.Label.Text = "Frequency"

	g := plotter.NewGrid()
	g.Vertical.Color = color.Gray{200}
	g.Horizontal.Color = color.Gray{200}
	p.Add(g)

	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return nil, fmt.Errorf("histogram %q: %v", title, err)
	}
	h.FillColor = color.RGBA{R: 0, G: 128, B: 0, A: 178}
	h.LineStyle.Width = vg.Length(0)
	p.Add(h)

	return p, nil
}

// SaveHistogram saves a histogram
// of a set of cell values
// into a file.
// The image format is defined by the file extension.
func SaveHistogram(name string, vals []float64, bins int, title string) error {
	p, err := Histogram(vals, bins, title)
	if err != nil {
		return err
	}
	if err := p.Save(10*vg.Inch, 4*vg.Inch, name); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
