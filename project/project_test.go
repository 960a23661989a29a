// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/js-arias/sdmstat/gridstat"
	"github.com/js-arias/sdmstat/project"
	"github.com/js-arias/sdmstat/raster"
	"github.com/js-arias/sdmstat/scenario"
)

type paramValue struct {
	par project.Param
	val string
}

func TestProject(t *testing.T) {
	p := project.New()

	params := []paramValue{
		{project.Input, "Thesis_SDM"},
		{project.Output, "out"},
		{project.Token, "avocado"},
		{project.Reference, "current"},
		{project.Order, "current;2050;2100"},
		{project.Thresholds, "0.25,0.5,0.75"},
		{project.Background, "0.001"},
		{project.NoData, "-9999"},
		{project.Bins, "20"},
		{project.Scale, "iridescent"},
	}

	for _, pv := range params {
		if err := p.Set(pv.par, pv.val); err != nil {
			t.Fatalf("set %s: unexpected error: %v", pv.par, err)
		}
	}
	testProject(t, p, params)

	name := filepath.Join(t.TempDir(), "project.tab")
	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testProject(t, np, params)

	if th := np.Thresholds(); !reflect.DeepEqual(th, []float64{0.25, 0.5, 0.75}) {
		t.Errorf("thresholds: got %v", th)
	}
	if b := np.Background(); b != 0.001 {
		t.Errorf("background: got %v, want 0.001", b)
	}
	if v, ok := np.NoData(); !ok || v != -9999 {
		t.Errorf("nodata: got %v (%v), want -9999", v, ok)
	}
	if b := np.Bins(); b != 20 {
		t.Errorf("bins: got %d, want 20", b)
	}
	want := scenario.Order{{"current"}, {"2050"}, {"2100"}}
	if o := np.Order(); !reflect.DeepEqual(o, want) {
		t.Errorf("order: got %v, want %v", o, want)
	}
}

func TestDefaults(t *testing.T) {
	p := project.New()
	if p.Input() != "." || p.Output() != "." {
		t.Errorf("directories: got %q, %q, want %q", p.Input(), p.Output(), ".")
	}
	if p.Extension() != project.DefaultExtension {
		t.Errorf("extension: got %q, want %q", p.Extension(), project.DefaultExtension)
	}
	if p.Reference() != project.DefaultReference {
		t.Errorf("reference: got %q, want %q", p.Reference(), project.DefaultReference)
	}
	if !reflect.DeepEqual(p.Thresholds(), gridstat.DefaultThresholds) {
		t.Errorf("thresholds: got %v, want %v", p.Thresholds(), gridstat.DefaultThresholds)
	}
	if !reflect.DeepEqual(p.Order(), scenario.DefaultOrder) {
		t.Errorf("order: got %v, want %v", p.Order(), scenario.DefaultOrder)
	}
	if _, ok := p.NoData(); ok {
		t.Errorf("nodata: defined by default")
	}
	if p.Bins() != project.DefaultBins {
		t.Errorf("bins: got %d, want %d", p.Bins(), project.DefaultBins)
	}
	if p.Scale() != project.DefaultScale {
		t.Errorf("scale: got %q, want %q", p.Scale(), project.DefaultScale)
	}

	p.Set(project.Input, "data")
	if p.Output() != "data" {
		t.Errorf("output: got %q, want %q", p.Output(), "data")
	}
	p.Set(project.Extension, "TIFF")
	if p.Extension() != ".TIFF" {
		t.Errorf("extension: got %q, want %q", p.Extension(), ".TIFF")
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []paramValue{
		{project.Param("unknown"), "value"},
		{project.Thresholds, "0.5,high"},
		{project.Background, "zero"},
		{project.NoData, "none"},
		{project.Bins, "0"},
		{project.Order, ";"},
		{project.Scale, "purple"},
	}

	p := project.New()
	for _, pv := range tests {
		if err := p.Set(pv.par, pv.val); err == nil {
			t.Errorf("set %s to %q: expecting error", pv.par, pv.val)
		}
	}

	name := filepath.Join(t.TempDir(), "bad-project.tab")
	data := "parameter\tvalue\nbins\tmany\n"
	if err := os.WriteFile(name, []byte(data), 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	if _, err := project.Read(name); err == nil {
		t.Errorf("read invalid file: expecting error")
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"sp_2100.tif", "sp_current.tif", "sp_2050.tif", "other.tif"} {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0o644); err != nil {
			t.Fatalf("unable to create file: %v", err)
		}
	}

	p := project.New()
	p.Set(project.Input, dir)
	p.Set(project.Token, "sp_")

	got, err := p.Files()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "sp_current.tif"),
		filepath.Join(dir, "sp_2050.tif"),
		filepath.Join(dir, "sp_2100.tif"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("files: got %v, want %v", got, want)
	}
}

func testProject(t testing.TB, p *project.Project, params []paramValue) {
	t.Helper()

	for _, pv := range params {
		if v := p.Get(pv.par); v != pv.val {
			t.Errorf("param %s: got %q, want %q", pv.par, v, pv.val)
		}
	}
}

func TestOutputNames(t *testing.T) {
	p := project.New()
	p.Set(project.Input, "data")
	p.Set(project.Output, "out")

	if got, want := p.OutputFile("data/avocado_current.TIF", "_hist.png"), filepath.Join("out", "avocado_current_hist.png"); got != want {
		t.Errorf("output file: got %q, want %q", got, want)
	}
	if got := p.Prefix(); got != "sdmstat" {
		t.Errorf("prefix: got %q, want %q", got, "sdmstat")
	}
	p.Set(project.Token, "avocado_")
	if got := p.Prefix(); got != "avocado" {
		t.Errorf("prefix: got %q, want %q", got, "avocado")
	}
	if got := p.Label("data/avocado_2050_ssp245.tif"); got != "2050_ssp245" {
		t.Errorf("label: got %q, want %q", got, "2050_ssp245")
	}
}

func TestMask(t *testing.T) {
	dir := t.TempDir()
	ref, _ := raster.FromRows([][]float64{
		{0, 0.5},
		{-9999, 0.25},
	})
	if err := raster.WriteFile(filepath.Join(dir, "sp_current.tif"), ref); err != nil {
		t.Fatalf("unable to write grid: %v", err)
	}

	p := project.New()
	p.Set(project.Input, dir)
	p.Set(project.Token, "sp")
	files, err := p.Files()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, name, err := p.Mask(files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(name) != "sp_current.tif" {
		t.Errorf("reference: got %q, want %q", name, "sp_current.tif")
	}
	if m.Count() != 2 {
		t.Errorf("mask count: got %d, want 2", m.Count())
	}

	p.Set(project.Background, "0.3")
	m, _, _ = p.Mask(files)
	if m.Count() != 1 {
		t.Errorf("mask count with background 0.3: got %d, want 1", m.Count())
	}

	p.Set(project.NoData, "0.5")
	g, err := p.ReadGrid(files[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.IsNoData(0.5) {
		t.Errorf("nodata: project value not used")
	}

	p.Set(project.Reference, "past")
	if _, _, err := p.Mask(files); !errors.Is(err, project.ErrNoReference) {
		t.Errorf("undefined reference: got error %v, want %v", err, project.ErrNoReference)
	}
}
