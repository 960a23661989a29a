// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package batch implements the sequential processing
// of a batch of grid files,
// in which a failure in a file
// is reported as a typed result,
// and it does not stop the processing
// of the rest of the files.
package batch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/js-arias/sdmstat/gridstat"
	"github.com/js-arias/sdmstat/mask"
	"github.com/js-arias/sdmstat/raster"
	"github.com/sirupsen/logrus"
)

// Kind is the kind of the result
// of processing a file.
type Kind int

// Valid result kinds.
const (
	// OK is a file processed without errors.
	OK Kind = iota

	// ReadFailed is a file that can not be read
	// or decoded.
	ReadFailed

	// ShapeMismatch is a file with a grid
	// with a shape different from the validity mask.
	ShapeMismatch

	// NoData is a file without valid cells.
	NoData

	// Failed is any other failure.
	Failed
)

var kinds = []Kind{
	OK,
	ReadFailed,
	ShapeMismatch,
	NoData,
	Failed,
}

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case ReadFailed:
		return "read failed"
	case ShapeMismatch:
		return "shape mismatch"
	case NoData:
		return "no valid data"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Classify returns the kind of result
// of an error.
func Classify(err error) Kind {
	if err == nil {
		return OK
	}
	if errors.Is(err, gridstat.ErrNoData) {
		return NoData
	}
	if errors.Is(err, mask.ErrShape) {
		return ShapeMismatch
	}

	var fe raster.FormatError
	if errors.As(err, &fe) {
		return ReadFailed
	}
	var ue raster.UnsupportedError
	if errors.As(err, &ue) {
		return ReadFailed
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return ReadFailed
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return ReadFailed
	}
	return Failed
}

// A Result is the result of processing a file.
type Result struct {
	File string
	Kind Kind
	Err  error
}

// A Report is the collection of results
// of a batch.
type Report struct {
	Results []Result
}

// Count returns the number of results
// of a given kind.
func (r *Report) Count(k Kind) int {
	n := 0
	for _, res := range r.Results {
		if res.Kind == k {
			n++
		}
	}
	return n
}

// Failed returns the results
// of the files with errors.
func (r *Report) Failed() []Result {
	var f []Result
	for _, res := range r.Results {
		if res.Kind != OK {
			f = append(f, res)
		}
	}
	return f
}

// Print prints a summary of the report.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "processed %d files", len(r.Results))
	for _, k := range kinds {
		n := r.Count(k)
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "; %s: %d", k, n)
	}
	fmt.Fprintf(w, "\n")
}

// Run process each file with the given function,
// one file after another.
// Files with errors are logged
// and the processing continues with the next file.
func Run(files []string, fn func(name string) error, log *logrus.Logger) *Report {
	rep := &Report{
		Results: make([]Result, 0, len(files)),
	}
	for _, f := range files {
		err := call(fn, f)
		k := Classify(err)
		rep.Results = append(rep.Results, Result{
			File: f,
			Kind: k,
			Err:  err,
		})
		if k == OK || log == nil {
			continue
		}

		e := log.WithFields(logrus.Fields{
			"file": filepath.Base(f),
			"kind": k.String(),
		})
		if k == NoData {
			e.Warn(err)
			continue
		}
		e.Error(err)
	}
	return rep
}

// call runs fn on a file.
// A panic is returned as an error,
// so a single corrupt file
// does not stop the batch.
func call(fn func(name string) error, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("on file %q: unexpected failure: %v", name, r)
		}
	}()
	return fn(name)
}

// NewLogger returns a logger for batch failures
// that writes into w.
func NewLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	return l
}
