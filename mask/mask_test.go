// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mask_test

import (
	"errors"
	"math"
	"testing"

	"github.com/js-arias/sdmstat/mask"
	"github.com/js-arias/sdmstat/raster"
)

func TestFromGrid(t *testing.T) {
	nan := math.NaN()
	ref, err := raster.FromRows([][]float64{
		{0, 0.2, nan},
		{-9999, 0.05, 1},
		{math.Inf(1), -0.5, 0.9},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref.SetNoData(-9999)

	tests := map[string]struct {
		background float64
		want       []bool
	}{
		"zero": {
			background: 0,
			want: []bool{
				false, true, false,
				false, true, true,
				false, false, true,
			},
		},
		"threshold": {
			background: 0.1,
			want: []bool{
				false, true, false,
				false, false, true,
				false, false, true,
			},
		},
		"negative": {
			background: -1,
			want: []bool{
				true, true, false,
				false, true, true,
				false, true, true,
			},
		},
	}

	for name, test := range tests {
		m := mask.FromGrid(ref, test.background)
		count := 0
		for y := 0; y < m.Rows(); y++ {
			for x := 0; x < m.Cols(); x++ {
				w := test.want[y*m.Cols()+x]
				if w {
					count++
				}
				if got := m.Valid(x, y); got != w {
					t.Errorf("%s: cell (%d, %d): got %v, want %v", name, x, y, got, w)
				}
			}
		}
		if m.Count() != count {
			t.Errorf("%s: count: got %d, want %d", name, m.Count(), count)
		}
	}
}

func TestApply(t *testing.T) {
	ref, _ := raster.FromRows([][]float64{
		{1, 0},
		{0, 1},
	})
	m := mask.FromGrid(ref, 0)

	g, _ := raster.FromRows([][]float64{
		{0.2, 0.4},
		{0.6, 0.8},
	})
	got, err := m.Apply(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.At(0, 0) != 0.2 || got.At(1, 1) != 0.8 {
		t.Errorf("valid cells: got %v", got.Values())
	}
	if !math.IsNaN(got.At(1, 0)) || !math.IsNaN(got.At(0, 1)) {
		t.Errorf("invalid cells: got %v, want NaN", got.Values())
	}
	if g.At(1, 0) != 0.4 {
		t.Errorf("source grid modified: got %v", g.Values())
	}
}

func TestShape(t *testing.T) {
	m := mask.FromGrid(raster.New(3, 2), 0)

	for _, g := range []*raster.Grid{
		raster.New(2, 3),
		raster.New(3, 3),
		raster.New(6, 1),
	} {
		if err := m.Check(g); !errors.Is(err, mask.ErrShape) {
			t.Errorf("check %dx%d: got error %v, want %v", g.Cols(), g.Rows(), err, mask.ErrShape)
		}
		if _, err := m.Apply(g); !errors.Is(err, mask.ErrShape) {
			t.Errorf("apply %dx%d: got error %v, want %v", g.Cols(), g.Rows(), err, mask.ErrShape)
		}
	}

	if err := m.Check(raster.New(3, 2)); err != nil {
		t.Errorf("same shape: unexpected error: %v", err)
	}
}
