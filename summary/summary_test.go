// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package summary_test

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/js-arias/sdmstat/gridstat"
	"github.com/js-arias/sdmstat/summary"
)

func TestChange(t *testing.T) {
	tests := []struct {
		v, base float64
		want    float64
	}{
		{2, 1, 100},
		{0.5, 1, -50},
		{1, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
		{math.NaN(), 1, 0},
		{1, math.NaN(), 0},
		{math.Inf(1), 1, 0},
	}
	for _, test := range tests {
		if got := summary.Change(test.v, test.base); math.Abs(got-test.want) > 1e-9 {
			t.Errorf("change %v from %v: got %v, want %v", test.v, test.base, got, test.want)
		}
	}
}

func TestTable(t *testing.T) {
	tab := newTable(t)

	if len(tab.Rows()) != 3 {
		t.Fatalf("rows: got %d, want 3", len(tab.Rows()))
	}

	current := tab.Rows()[0]
	want := summary.Row{
		Scenario: "current",
		Mean:     0.5,
		Max:      0.875,
		Area:     []float64{50, 25},
	}
	if diff := cmp.Diff(want, current, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}

	future := tab.Rows()[1]
	if c := tab.MeanChange(future); math.Abs(c-(-50)) > 1e-9 {
		t.Errorf("mean change: got %.4f, want -50", c)
	}
	if c := tab.AreaChange(future, 0); math.Abs(c-(-50)) > 1e-9 {
		t.Errorf("area change 0.5: got %.4f, want -50", c)
	}
	if c := tab.AreaChange(future, 1); c != -100 {
		t.Errorf("area change 0.7: got %.4f, want -100", c)
	}

	empty := tab.Rows()[2]
	if !empty.NoData {
		t.Errorf("row %q: expecting no data", empty.Scenario)
	}
	if c := tab.MeanChange(empty); c != 0 {
		t.Errorf("no data mean change: got %.4f, want 0", c)
	}

	if err := tab.SetBaseline("2050_ssp245"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c := tab.AreaChange(current, 1); c != 0 {
		t.Errorf("area change from zero baseline: got %.4f, want 0", c)
	}
	if err := tab.SetBaseline("2100"); err == nil {
		t.Errorf("undefined baseline: expecting error")
	}
}

func TestWrite(t *testing.T) {
	tab := newTable(t)

	var buf bytes.Buffer
	if err := tab.Write(&buf, ','); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "# run: "+tab.ID) {
		t.Errorf("header: run ID %q not found", tab.ID)
	}

	r := csv.NewReader(&buf)
	r.Comment = '#'
	recs, err := r.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{
		{"Scenario", "Mean Suitability", "Max Suitability", "% Area > 0.5", "% Area > 0.7", "Mean Change (%)", "% Area > 0.5 Change (%)", "% Area > 0.7 Change (%)"},
		{"current", "0.5", "0.875", "50", "25", "0", "0", "0"},
		{"2050_ssp245", "0.25", "0.625", "25", "0", "-50", "-50", "-100"},
		{"2100_ssp245", "no valid data", "no valid data", "no valid data", "no valid data", "no valid data", "no valid data", "no valid data"},
	}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	name := filepath.Join(t.TempDir(), "stats.tab")
	if err := tab.WriteFile(name, '\t'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "Scenario\tMean Suitability") {
		t.Errorf("file: tab delimited header not found")
	}
}

func TestMarkdown(t *testing.T) {
	tab := summary.New([]float64{0.5})
	tab.Add("current", stats(t, []float64{0.2, 0.6, 0.8}, 0.5))

	var buf bytes.Buffer
	if err := tab.Markdown(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `| Scenario | Mean Suitability | Max Suitability | % Area > 0.5 | Mean Change (%) | % Area > 0.5 Change (%) |
|:---------|-----------------:|----------------:|-------------:|----------------:|------------------------:|
| current  |             0.53 |            0.80 |        66.67 |            0.00 |                    0.00 |
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestChart(t *testing.T) {
	tab := newTable(t)

	var buf bytes.Buffer
	if err := tab.Chart(&buf, "Avocado Suitability"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := buf.String()
	for _, s := range []string{"<html", "Avocado Suitability", "2050_ssp245"} {
		if !strings.Contains(html, s) {
			t.Errorf("chart: %q not found", s)
		}
	}
}

func newTable(t testing.TB) *summary.Table {
	t.Helper()

	tab := summary.New(nil)
	tab.Add("current", stats(t, []float64{0.25, 0.625, 0.875, 0.25}, 0.5, 0.7))
	tab.Add("2050_ssp245", stats(t, []float64{0.125, 0.625, 0.125, 0.125}, 0.5, 0.7))
	tab.AddNoData("2100_ssp245")
	return tab
}

func stats(t testing.TB, vals []float64, th ...float64) gridstat.Stats {
	t.Helper()

	s, err := gridstat.FromValues(vals, gridstat.Options{Thresholds: th})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}
