// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package scenario_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/js-arias/sdmstat/scenario"
)

func TestSelect(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"avocado_current.tif",
		"avocado_2050_ssp245.TIF",
		"avocado_notes.txt",
		"coffee_current.tif",
		"avocado_2100_ssp585.tif",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0o644); err != nil {
			t.Fatalf("unable to create file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "avocado_dir.tif"), 0o755); err != nil {
		t.Fatalf("unable to create directory: %v", err)
	}

	got, err := scenario.Select(dir, ".tif", "avocado")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "avocado_2050_ssp245.TIF"),
		filepath.Join(dir, "avocado_2100_ssp585.tif"),
		filepath.Join(dir, "avocado_current.tif"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("select: got %v, want %v", got, want)
	}

	if _, err := scenario.Select(dir, ".tif", "banana"); !errors.Is(err, scenario.ErrNoFiles) {
		t.Errorf("no files: got error %v, want %v", err, scenario.ErrNoFiles)
	}
	if _, err := scenario.Select(filepath.Join(dir, "missing"), ".tif", ""); !errors.Is(err, scenario.ErrNoDir) {
		t.Errorf("no directory: got error %v, want %v", err, scenario.ErrNoDir)
	}
}

func TestOrder(t *testing.T) {
	names := []string{
		"data/avocado_2100_ssp585.tif",
		"data/avocado_2050_ssp585.tif",
		"data/avocado_other.tif",
		"data/avocado_2100_ssp245.tif",
		"data/avocado_current.tif",
		"data/avocado_2050_ssp245.tif",
	}
	scenario.DefaultOrder.Sort(names)

	want := []string{
		"data/avocado_current.tif",
		"data/avocado_2050_ssp245.tif",
		"data/avocado_2050_ssp585.tif",
		"data/avocado_2100_ssp245.tif",
		"data/avocado_2100_ssp585.tif",
		"data/avocado_other.tif",
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("sort: got %v, want %v", names, want)
	}
}

func TestParseOrder(t *testing.T) {
	o, err := scenario.ParseOrder(scenario.DefaultOrder.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(o, scenario.DefaultOrder) {
		t.Errorf("parse: got %v, want %v", o, scenario.DefaultOrder)
	}

	o, err = scenario.ParseOrder(" 2100 ; current+a ;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := scenario.Order{{"2100"}, {"current", "a"}}
	if !reflect.DeepEqual(o, want) {
		t.Errorf("parse: got %v, want %v", o, want)
	}
	if r := o.Rank("x_current_a.tif"); r != 1 {
		t.Errorf("rank: got %d, want 1", r)
	}
	if r := o.Rank("x_current.tif"); r != 2 {
		t.Errorf("rank: got %d, want 2", r)
	}

	for _, s := range []string{"", ";;", "a++b"} {
		if _, err := scenario.ParseOrder(s); err == nil {
			t.Errorf("order %q: expecting error", s)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"dir/avocado_2050_ssp245.tif", "avocado", "2050_ssp245"},
		{"avocado_current.TIF", "avocado", "current"},
		{"current_avocado.tif", "avocado", "current"},
		{"avocado.tif", "avocado", "avocado"},
		{"model.tif", "", "model"},
	}
	for _, test := range tests {
		if got := scenario.Label(test.name, test.token, ".tif"); got != test.want {
			t.Errorf("label %q: got %q, want %q", test.name, got, test.want)
		}
	}
}

func TestReference(t *testing.T) {
	names := []string{"d/a_2050.tif", "d/a_current.tif"}
	if n, ok := scenario.Reference(names, "current"); !ok || n != "d/a_current.tif" {
		t.Errorf("reference: got %q (%v), want %q", n, ok, "d/a_current.tif")
	}
	if _, ok := scenario.Reference(names, "past"); ok {
		t.Errorf("reference: undefined reference found")
	}
}
