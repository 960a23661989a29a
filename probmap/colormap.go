// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package probmap

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
)

// ColorMap is a palette.ColorMap
// that uses a Gradienter
// so it can be used with plot color bars.
type ColorMap struct {
	g     Gradienter
	min   float64
	max   float64
	alpha float64
}

// NewColorMap returns a color map
// for the given gradient
// in the range [min, max].
func NewColorMap(g Gradienter, min, max float64) *ColorMap {
	if g == nil {
		g = RdYlGn{}
	}
	return &ColorMap{
		g:     g,
		min:   min,
		max:   max,
		alpha: 1,
	}
}

// At returns the color of a value.
func (cm *ColorMap) At(v float64) (color.Color, error) {
	if math.IsNaN(v) {
		return nil, palette.ErrNaN
	}
	if v < cm.min {
		return nil, palette.ErrUnderflow
	}
	if v > cm.max {
		return nil, palette.ErrOverflow
	}

	p := 0.0
	if cm.max > cm.min {
		p = (v - cm.min) / (cm.max - cm.min)
	}
	c := toRGBA(cm.g.Gradient(p))
	if cm.alpha < 1 {
		return color.NRGBA{c.R, c.G, c.B, uint8(cm.alpha * 255)}, nil
	}
	return c, nil
}

func (cm *ColorMap) Max() float64       { return cm.max }
func (cm *ColorMap) SetMax(v float64)   { cm.max = v }
func (cm *ColorMap) Min() float64       { return cm.min }
func (cm *ColorMap) SetMin(v float64)   { cm.min = v }
func (cm *ColorMap) Alpha() float64     { return cm.alpha }
func (cm *ColorMap) SetAlpha(a float64) { cm.alpha = a }

// Palette returns a palette of n colors
// evenly spaced in the color map.
func (cm *ColorMap) Palette(n int) palette.Palette {
	cs := make(colors, 0, n)
	for i := 0; i < n; i++ {
		p := 0.0
		if n > 1 {
			p = float64(i) / float64(n-1)
		}
		cs = append(cs, toRGBA(cm.g.Gradient(p)))
	}
	return cs
}

type colors []color.Color

func (c colors) Colors() []color.Color { return c }
