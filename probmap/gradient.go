// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package probmap

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/js-arias/blind"
	"gonum.org/v1/plot/palette/brewer"
)

// Gradientes is an interface for types
// that return a color gradient
type Gradienter interface {
	Gradient(v float64) color.Color
}

var gradients = map[string]Gradienter{
	"gray":         LightGrayScale{},
	"incandescent": Incandescent{},
	"iridescent":   Iridescent{},
	"rainbow":      RainbowPurpleToRed{},
	"rdylgn":       RdYlGn{},
}

// Gradients returns the names
// of the available color gradients.
func Gradients() []string {
	return []string{
		"rdylgn",
		"rainbow",
		"incandescent",
		"iridescent",
		"gray",
	}
}

// NewGradient returns a color gradient by its name.
func NewGradient(name string) (Gradienter, error) {
	g, ok := gradients[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown color scale %q", name)
	}
	return g, nil
}

// LightGrayScale returns a gray scale
// between 0 (light gray)
// to 200 (black).
type LightGrayScale struct{}

func (l LightGrayScale) Gradient(v float64) color.Color {
	v = clamp(v)
	c := 200 - uint8(v*200)
	return color.RGBA{c, c, c, 255}
}

// Incandescent is the incandescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_incandescent>.
type Incandescent struct{}

func (i Incandescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Incandescent, clamp(v))
}

// Iridescent is the iridescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_iridescent>.
type Iridescent struct{}

func (i Iridescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Iridescent, clamp(v))
}

// RainbowPurpleToRed is the rainbow color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_rainbow_smooth>
// starting at purple and ending at red.
type RainbowPurpleToRed struct{}

func (r RainbowPurpleToRed) Gradient(v float64) color.Color {
	return blind.Sequential(blind.RainbowPurpleToRed, clamp(v))
}

// RdYlGn is the diverging red-yellow-green color scheme
// of ColorBrewer
// <https://colorbrewer2.org>.
// Low values are red,
// and high values are green.
type RdYlGn struct{}

// number of classes of the RdYlGn palette
const rdYlGnClasses = 11

var rdYlGn []color.Color

func init() {
	p, err := brewer.GetPalette(brewer.TypeDiverging, "RdYlGn", rdYlGnClasses)
	if err != nil {
		panic(err)
	}
	rdYlGn = p.Colors()
}

func (r RdYlGn) Gradient(v float64) color.Color {
	return interpolate(rdYlGn, clamp(v))
}

// Interpolate returns a color
// linearly interpolated from a list of colors.
func interpolate(cs []color.Color, v float64) color.Color {
	pos := v * float64(len(cs)-1)
	i := int(pos)
	if i >= len(cs)-1 {
		return toRGBA(cs[len(cs)-1])
	}
	f := pos - float64(i)

	a := toRGBA(cs[i])
	b := toRGBA(cs[i+1])
	return color.RGBA{
		R: lerp(a.R, b.R, f),
		G: lerp(a.G, b.G, f),
		B: lerp(a.B, b.B, f),
		A: 255,
	}
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, _ := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255}
}
