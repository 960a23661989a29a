// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package notebook_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/js-arias/sdmstat/notebook"
)

const doc = `{
 "cells": [
  {
   "cell_type": "markdown",
   "source": ["# Thesis\n", "SDM analysis"]
  },
  {
   "cell_type": "code",
   "execution_count": 1,
   "source": ["import numpy as np\n", "print(np.pi)"]
  },
  {
   "cell_type": "code",
   "source": "x = 1"
  },
  {
   "cell_type": "raw",
   "source": []
  }
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}`

func TestRead(t *testing.T) {
	nb, err := notebook.Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []notebook.Cell{
		{Index: 1, Type: "code", Source: "import numpy as np\nprint(np.pi)"},
		{Index: 2, Type: "code", Source: "x = 1"},
	}
	if diff := cmp.Diff(want, nb.Code()); diff != "" {
		t.Errorf("code cells mismatch (-want +got):\n%s", diff)
	}
}

func TestPrint(t *testing.T) {
	name := filepath.Join(t.TempDir(), "thesis.ipynb")
	if err := os.WriteFile(name, []byte(doc), 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}

	nb, err := notebook.ReadFile(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := nb.Print(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "--- Cell 1 ---\nimport numpy as np\nprint(np.pi)\n\n\n--- Cell 2 ---\nx = 1\n\n\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestMalformed(t *testing.T) {
	tests := map[string]string{
		"truncated":  `{"cells": [`,
		"bad source": `{"cells": [{"cell_type": "code", "source": 42}]}`,
		"not json":   `cells`,
		"trailing":   `{"cells": []} cells`,
		"two docs":   `{"cells": []}{"cells": []}`,
	}
	for name, d := range tests {
		if _, err := notebook.Read(strings.NewReader(d)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}

	if _, err := notebook.Read(strings.NewReader("{\"cells\": []}\n\n")); err != nil {
		t.Errorf("trailing spaces: unexpected error: %v", err)
	}
}
