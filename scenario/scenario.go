// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package scenario implements the selection
// and ordering of a batch of grid files.
//
// Grid files are selected by directory,
// file extension,
// and a token in the file name,
// and they are sorted using a declared scenario order
// (for example,
// the current climate,
// then the 2050s,
// then the 2100s).
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoDir is returned when the input directory
// does not exist.
var ErrNoDir = errors.New("input directory not found")

// ErrNoFiles is returned when no file matches
// the selection.
var ErrNoFiles = errors.New("no matching files")

// Select returns the names of the regular files
// in a directory
// that end with the given extension
// (case insensitive)
// and that contain the given token.
// The returned names include the directory
// and they are sorted by name.
func Select(dir, ext, token string) ([]string, error) {
	st, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNoDir, dir)
		}
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", ErrNoDir, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	ext = strings.ToLower(ext)

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ext) {
			continue
		}
		if !strings.Contains(name, token) {
			continue
		}
		names = append(names, filepath.Join(dir, name))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: directory %q, extension %q, token %q", ErrNoFiles, dir, ext, token)
	}
	slices.Sort(names)
	return names, nil
}

// A Rule is a set of tokens
// that must be present in a file name.
type Rule []string

// Match returns true if all the tokens of the rule
// are in the name.
func (r Rule) Match(name string) bool {
	if len(r) == 0 {
		return false
	}
	for _, t := range r {
		if !strings.Contains(name, t) {
			return false
		}
	}
	return true
}

func (r Rule) String() string {
	return strings.Join(r, "+")
}

// An Order is a list of rules
// used to sort scenarios.
type Order []Rule

// DefaultOrder places the current scenario first,
// then the 2050s,
// and then the 2100s,
// with the SSP2-4.5 scenario
// before any other scenario of the same period.
var DefaultOrder = Order{
	{"current"},
	{"2050", "ssp245"},
	{"2050"},
	{"2100", "ssp245"},
	{"2100"},
}

// ParseOrder parses an order
// expressed as a semicolon separated list of rules,
// each rule with its tokens separated by a plus sign.
// For example,
// the default order is:
//
//	current;2050+ssp245;2050;2100+ssp245;2100
func ParseOrder(s string) (Order, error) {
	var o Order
	for _, r := range strings.Split(s, ";") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		var rule Rule
		for _, t := range strings.Split(r, "+") {
			t = strings.TrimSpace(t)
			if t == "" {
				return nil, fmt.Errorf("order %q: empty token in rule %q", s, r)
			}
			rule = append(rule, t)
		}
		o = append(o, rule)
	}
	if len(o) == 0 {
		return nil, fmt.Errorf("order %q: no rules", s)
	}
	return o, nil
}

func (o Order) String() string {
	rules := make([]string, 0, len(o))
	for _, r := range o {
		rules = append(rules, r.String())
	}
	return strings.Join(rules, ";")
}

// Rank returns the rank of a file name,
// the index of the first rule that matches the name.
// If no rule matches,
// it returns the number of rules.
func (o Order) Rank(name string) int {
	base := filepath.Base(name)
	for i, r := range o {
		if r.Match(base) {
			return i
		}
	}
	return len(o)
}

// Sort sorts a list of file names
// using the rank of each name.
// Names with the same rank keep their relative order.
func (o Order) Sort(names []string) {
	slices.SortStableFunc(names, func(a, b string) int {
		return o.Rank(a) - o.Rank(b)
	})
}

// Reference returns the first name
// that contains the given token.
func Reference(names []string, token string) (string, bool) {
	for _, n := range names {
		if strings.Contains(filepath.Base(n), token) {
			return n, true
		}
	}
	return "", false
}

// Label returns the scenario label of a file name,
// i.e., the base name without the token prefix
// and the extension.
// For example,
// "avocado_2050_ssp245.tif" is labelled as "2050_ssp245".
func Label(name, token, ext string) string {
	l := filepath.Base(name)
	if len(l) >= len(ext) && strings.EqualFold(l[len(l)-len(ext):], ext) {
		l = l[:len(l)-len(ext)]
	}
	if token != "" {
		l = strings.Replace(l, token+"_", "", 1)
		l = strings.Replace(l, "_"+token, "", 1)
	}
	if l == "" {
		return token
	}
	return l
}
