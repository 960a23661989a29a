// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package probmap implements a map image
// for a suitability (probability) grid,
// using a fixed color scale.
package probmap

import (
	"image"
	"image/color"
	"math"

	"github.com/js-arias/sdmstat/raster"
)

// Image is an image of a grid.
type Image struct {
	// Grid with the values of the map
	Grid *raster.Grid

	// Min and Max are the limits of the color scale.
	// Values outside the limits are clamped.
	// If both are equal,
	// the scale will be set to [0, 1].
	Min float64
	Max float64

	// A Gradient color scheme
	Gradient Gradienter

	// Background is the color used for cells
	// without valid data
	Background color.Color
}

// Format sets the default values of the image.
func (i *Image) Format() {
	if i.Min == i.Max {
		i.Min = 0
		i.Max = 1
	}
	if i.Min > i.Max {
		i.Min, i.Max = i.Max, i.Min
	}
	if i.Gradient == nil {
		i.Gradient = RdYlGn{}
	}
	if i.Background == nil {
		i.Background = color.RGBA{255, 255, 255, 255}
	}
}

func (i *Image) ColorModel() color.Model { return color.RGBAModel }
func (i *Image) Bounds() image.Rectangle { return image.Rect(0, 0, i.Grid.Cols(), i.Grid.Rows()) }
func (i *Image) At(x, y int) color.Color {
	v := i.Grid.At(x, y)
	if math.IsNaN(v) || math.IsInf(v, 0) || i.Grid.IsNoData(v) {
		return i.Background
	}
	return i.Gradient.Gradient(i.Scale(v))
}

// Scale returns the position of a value
// in the color scale,
// as a value between 0 and 1.
func (i *Image) Scale(v float64) float64 {
	if i.Max == i.Min {
		return clamp(v)
	}
	return clamp((v - i.Min) / (i.Max - i.Min))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
