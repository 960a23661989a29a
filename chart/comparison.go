// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/js-arias/sdmstat/gridstat"
	"github.com/js-arias/sdmstat/probmap"
	"github.com/js-arias/sdmstat/raster"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default values of a comparison image.
const (
	DefaultCols  = 3
	DefaultDPI   = 150
	DefaultTitle = "Suitability Comparison (Fixed Scale 0-1)"
	DefaultLabel = "Suitability Probability"
)

// A Panel is a map in a comparison image.
type Panel struct {
	Title string

	// Grid is the grid to be drawn.
	// If nil,
	// the panel will be marked
	// with an error.
	Grid *raster.Grid
}

// A Comparison is a multi-panel image
// of a batch of grids,
// with a shared color scale.
type Comparison struct {
	// Title of the image
	Title string

	// Label of the color bar
	Label string

	// Number of columns
	Cols int

	// Min and Max of the color scale
	Min float64
	Max float64

	// Color gradient
	Gradient probmap.Gradienter

	// Size of each panel
	PanelSize vg.Length

	// Resolution of the image
	DPI int

	Panels []Panel
}

func (c *Comparison) format() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Label == "" {
		c.Label = DefaultLabel
	}
	if c.Cols < 1 {
		c.Cols = DefaultCols
	}
	if c.Min == c.Max {
		c.Min = 0
		c.Max = 1
	}
	if c.Gradient == nil {
		c.Gradient = probmap.RdYlGn{}
	}
	if c.PanelSize <= 0 {
		c.PanelSize = 5 * vg.Inch
	}
	if c.DPI <= 0 {
		c.DPI = DefaultDPI
	}
}

const (
	titleHeight = vg.Inch / 2
	barWidth    = vg.Inch
)

// Draw draws the comparison image
// into a canvas.
func (c *Comparison) Draw(dc draw.Canvas) error {
	c.format()

	rows := (len(c.Panels) + c.Cols - 1) / c.Cols
	if rows == 0 {
		rows = 1
	}

	// global title
	sty := plot.New().Title.TextStyle
	sty.Font.Size = vg.Points(16)
	sty.XAlign = text.XCenter
	sty.YAlign = text.YTop
	dc.FillText(sty, vg.Point{
		X: (dc.Min.X + dc.Max.X) / 2,
		Y: dc.Max.Y - vg.Points(6),
	}, c.Title)

	maps := draw.Crop(dc, 0, -barWidth, 0, -titleHeight)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: c.Cols,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	for i, pn := range c.Panels {
		p, err := c.panel(pn)
		if err != nil {
			return err
		}
		p.Draw(tiles.At(maps, i%c.Cols, i/c.Cols))
	}

	bar, err := c.colorBar()
	if err != nil {
		return err
	}
	h := dc.Max.Y - dc.Min.Y - titleHeight
	bc := draw.Crop(dc, dc.Max.X-dc.Min.X-barWidth, 0, h*0.15, -titleHeight-h*0.15)
	bar.Draw(bc)
	return nil
}

func (c *Comparison) panel(pn Panel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = pn.Title
	p.HideAxes()

	if pn.Grid == nil {
		if err := centerText(p, "Error"); err != nil {
			return nil, err
		}
		return p, nil
	}

	s, err := gridstat.Compute(pn.Grid, gridstat.Options{})
	if err != nil {
		if err := centerText(p, "No Valid Data"); err != nil {
			return nil, err
		}
		return p, nil
	}

	img := &probmap.Image{
		Grid:     pn.Grid,
		Min:      c.Min,
		Max:      c.Max,
		Gradient: c.Gradient,
	}
	img.Format()

	xMin, yMin := 0.0, 0.0
	xMax, yMax := float64(pn.Grid.Cols()), float64(pn.Grid.Rows())
	if b, ok := pn.Grid.Bounds(); ok {
		xMin, yMin = b.Min.X(), b.Min.Y()
		xMax, yMax = b.Max.X(), b.Max.Y()
	}
	p.Add(plotter.NewImage(img, xMin, yMin, xMax, yMax))

	l, err := plotter.NewLabels(plotter.XYLabels{
		XYs: []plotter.XY{{
			X: xMin + (xMax-xMin)*0.05,
			Y: yMin + (yMax-yMin)*0.05,
		}},
		Labels: []string{fmt.Sprintf("Max: %.2f\nMean: %.2f", s.Max, s.Mean)},
	})
	if err != nil {
		return nil, err
	}
	l.TextStyle[0].Font.Size = vg.Points(8)
	l.TextStyle[0].YAlign = text.YBottom
	p.Add(l)

	p.X.Min, p.X.Max = xMin, xMax
	p.Y.Min, p.Y.Max = yMin, yMax
	return p, nil
}

func centerText(p *plot.Plot, txt string) error {
	l, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: 0.5, Y: 0.5}},
		Labels: []string{txt},
	})
	if err != nil {
		return err
	}
	l.TextStyle[0].XAlign = text.XCenter
	l.TextStyle[0].YAlign = text.YCenter
	p.Add(l)

	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	return nil
}

func (c *Comparison) colorBar() (*plot.Plot, error) {
	p := plot.New()
	p.HideX()
	p.Y.Label.Text = c.Label
	p.Add(&plotter.ColorBar{
		ColorMap: probmap.NewColorMap(c.Gradient, c.Min, c.Max),
		Vertical: true,
	})
	return p, nil
}

// WritePNG writes the comparison image
// as a PNG image.
func (c *Comparison) WritePNG(w io.Writer) error {
	c.format()

	rows := (len(c.Panels) + c.Cols - 1) / c.Cols
	if rows == 0 {
		rows = 1
	}
	width := vg.Length(c.Cols)*c.PanelSize + barWidth
	height := vg.Length(rows)*c.PanelSize + titleHeight

	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(c.DPI))
	if err := c.Draw(draw.New(img)); err != nil {
		return err
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return err
	}
	return nil
}

// SavePNG saves the comparison image
// into a PNG file.
func (c *Comparison) SavePNG(name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := c.WritePNG(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
