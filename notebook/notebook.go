// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package notebook implements a reader
// for notebook documents
// (i.e., Jupyter notebooks)
// to extract its code cells.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Code is the type of a code cell.
const Code = "code"

// A Cell is a cell of a notebook.
type Cell struct {
	// Index is the position of the cell
	// in the notebook.
	Index int `json:"-"`

	Type   string `json:"cell_type"`
	Source Source `json:"source"`
}

// Source is the source text of a cell.
// In a notebook document it can be stored
// as a single string
// or as a list of strings.
type Source string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *Source) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Source(v)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("invalid cell source: %v", err)
	}
	*s = Source(strings.Join(lines, ""))
	return nil
}

// A Notebook is a notebook document.
type Notebook struct {
	Cells []Cell `json:"cells"`
}

// Read reads a notebook document.
func Read(r io.Reader) (*Notebook, error) {
	var nb Notebook
	dec := json.NewDecoder(r)
	if err := dec.Decode(&nb); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid data after the notebook document")
	}
	for i := range nb.Cells {
		nb.Cells[i].Index = i
	}
	return &nb, nil
}

// ReadFile reads a notebook document from a file.
func ReadFile(name string) (*Notebook, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	nb, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return nb, nil
}

// Code returns the code cells of the notebook.
func (nb *Notebook) Code() []Cell {
	var cells []Cell
	for _, c := range nb.Cells {
		if c.Type != Code {
			continue
		}
		cells = append(cells, c)
	}
	return cells
}

// Print writes the code cells of the notebook
// labeled by its position.
func (nb *Notebook) Print(w io.Writer) error {
	for _, c := range nb.Code() {
		if _, err := fmt.Fprintf(w, "--- Cell %d ---\n%s\n\n\n", c.Index, c.Source); err != nil {
			return err
		}
	}
	return nil
}
