// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package raster_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/js-arias/sdmstat/raster"
	"github.com/paulmach/orb"
)

func TestFromRows(t *testing.T) {
	g, err := raster.FromRows([][]float64{
		{0.25, 0.5, 0.75},
		{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Cols() != 3 || g.Rows() != 2 {
		t.Errorf("size: got %dx%d, want 3x2", g.Cols(), g.Rows())
	}
	if v := g.At(2, 1); v != 3 {
		t.Errorf("at (2, 1): got %.2f, want 3", v)
	}

	if _, err := raster.FromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Errorf("ragged rows: expecting error")
	}
}

func TestNoData(t *testing.T) {
	g := raster.New(2, 2)
	if g.IsNoData(0) {
		t.Errorf("undefined no-data: value 0 reported as no-data")
	}
	g.SetNoData(-9999)
	if !g.IsNoData(-9999) {
		t.Errorf("no-data -9999: not detected")
	}
	g.SetNoData(math.NaN())
	if !g.IsNoData(math.NaN()) {
		t.Errorf("no-data NaN: not detected")
	}
	g.ClearNoData()
	if _, ok := g.NoData(); ok {
		t.Errorf("cleared no-data: still defined")
	}
}

func TestEncodeDecode(t *testing.T) {
	g, err := raster.FromRows([][]float64{
		{0, 0.25, 0.5, -9999},
		{0.75, 1, math.NaN(), 2},
		{-1, 0.125, 0.375, 0.625},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.SetNoData(-9999)
	g.CRS = "EPSG:4326"
	g.SetBounds(orb.Bound{Min: orb.Point{-80, -10}, Max: orb.Point{-40, 20}})

	var buf bytes.Buffer
	if err := raster.Encode(&buf, g); err != nil {
		t.Fatalf("unable to encode grid: %v", err)
	}

	got, err := raster.Decode(&buf)
	if err != nil {
		t.Fatalf("unable to decode grid: %v", err)
	}
	testGrid(t, got, g)
	if got.Driver != "GTiff" {
		t.Errorf("driver: got %q, want %q", got.Driver, "GTiff")
	}
	if st := got.SampleType(); st != "float32" {
		t.Errorf("sample type: got %q, want %q", st, "float32")
	}
}

func TestFloat32NoData(t *testing.T) {
	g, err := raster.FromRows([][]float64{
		{-3.4e38, 0.5},
		{0.25, -3.4e38},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.SetNoData(-3.4e38)

	var buf bytes.Buffer
	if err := raster.Encode(&buf, g); err != nil {
		t.Fatalf("unable to encode grid: %v", err)
	}
	got, err := raster.Decode(&buf)
	if err != nil {
		t.Fatalf("unable to decode grid: %v", err)
	}
	if n := validCells(got); n != 2 {
		t.Errorf("valid cells: got %d, want 2", n)
	}

	// a no-data value defined by the user
	got.ClearNoData()
	got.SetNoData(-3.4e38)
	if n := validCells(got); n != 2 {
		t.Errorf("valid cells with user no-data: got %d, want 2", n)
	}
}

func validCells(g *raster.Grid) int {
	var n int
	for _, v := range g.Values() {
		if math.IsNaN(v) || g.IsNoData(v) {
			continue
		}
		n++
	}
	return n
}

func TestReadFile(t *testing.T) {
	g := raster.New(5, 4)
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			g.Set(x, y, float64(x+y)/8)
		}
	}
	g.CRS = "EPSG:32618"

	name := filepath.Join(t.TempDir(), "grid.tif")
	if err := raster.WriteFile(name, g); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}

	got, err := raster.TIFF{}.Read(name)
	if err != nil {
		t.Fatalf("unable to read file: %v", err)
	}
	testGrid(t, got, g)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := raster.ReadFile(filepath.Join(dir, "missing.tif")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got error %v, want %v", err, os.ErrNotExist)
	}

	tests := map[string][]byte{
		"short":  []byte("II"),
		"header": []byte("XX*\x00\x08\x00\x00\x00"),
		"ifd":    []byte("II*\x00\xff\x00\x00\x00"),

		// declares five entries, but the file ends
		"truncated": []byte("II*\x00\x08\x00\x00\x00\x05\x00"),
	}
	for name, data := range tests {
		file := filepath.Join(dir, name+".tif")
		if err := os.WriteFile(file, data, 0o644); err != nil {
			t.Fatalf("unable to write file: %v", err)
		}
		_, err := raster.ReadFile(file)
		var fe raster.FormatError
		if !errors.As(err, &fe) {
			t.Errorf("%s: got error %v, want a format error", name, err)
		}
	}

	big := filepath.Join(dir, "big.tif")
	if err := os.WriteFile(big, []byte("II+\x00\x08\x00\x00\x00\x00\x00\x00\x00"), 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	_, err := raster.ReadFile(big)
	var ue raster.UnsupportedError
	if !errors.As(err, &ue) {
		t.Errorf("BigTIFF: got error %v, want an unsupported error", err)
	}
}

func testGrid(t testing.TB, got, want *raster.Grid) {
	t.Helper()

	if !got.SameShape(want) {
		t.Fatalf("shape: got %dx%d, want %dx%d", got.Cols(), got.Rows(), want.Cols(), want.Rows())
	}
	if diff := cmp.Diff(want.Values(), got.Values(), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	wv, wok := want.NoData()
	gv, gok := got.NoData()
	if wok != gok || (wok && wv != gv) {
		t.Errorf("no-data: got %v (%v), want %v (%v)", gv, gok, wv, wok)
	}
	if got.CRS != want.CRS {
		t.Errorf("CRS: got %q, want %q", got.CRS, want.CRS)
	}

	wb, wok := want.Bounds()
	gb, gok := got.Bounds()
	if wok != gok {
		t.Errorf("bounds defined: got %v, want %v", gok, wok)
	}
	if diff := cmp.Diff(wb, gb, cmpopts.EquateApprox(0, 1e-9)); wok && diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
}
