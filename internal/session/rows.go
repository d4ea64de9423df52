// Package session holds the ordered list of manually entered rows for an
// interactive calculator session.
package session

import "landshare/internal/types"

// Source tags rows entered by hand.
const Source = "entry"

// Rows is an ordered collection of row specs owned by the caller. It always
// holds at least one (possibly blank) row.
type Rows struct {
	rows []types.RowSpec
}

// NewRows returns a collection with a single blank row.
func NewRows() *Rows {
	return &Rows{rows: make([]types.RowSpec, 1)}
}

// Len reports the number of rows, blank ones included.
func (r *Rows) Len() int { return len(r.rows) }

// Add appends a blank row and returns its index.
func (r *Rows) Add() int {
	r.rows = append(r.rows, types.RowSpec{})
	return len(r.rows) - 1
}

// Next returns the row an add should fill: the placeholder while it is
// the only row and still blank, otherwise a newly appended row.
func (r *Rows) Next() int {
	if len(r.rows) == 1 && r.rows[0] == (types.RowSpec{}) {
		return 0
	}
	return r.Add()
}

// Replace swaps in a new set of rows, such as a loaded register. An empty
// set leaves a single blank row.
func (r *Rows) Replace(specs []types.RowSpec) {
	if len(specs) == 0 {
		r.rows = make([]types.RowSpec, 1)
		return
	}
	r.rows = append(make([]types.RowSpec, 0, len(specs)), specs...)
}

// RemoveLast drops the final row unless it is the only one left.
func (r *Rows) RemoveLast() bool {
	if len(r.rows) <= 1 {
		return false
	}
	r.rows = r.rows[:len(r.rows)-1]
	return true
}

// Get returns row i.
func (r *Rows) Get(i int) (types.RowSpec, bool) {
	if i < 0 || i >= len(r.rows) {
		return types.RowSpec{}, false
	}
	return r.rows[i], true
}

// Set replaces row i.
func (r *Rows) Set(i int, spec types.RowSpec) bool {
	if i < 0 || i >= len(r.rows) {
		return false
	}
	r.rows[i] = spec
	return true
}

// Specs returns a copy of the rows, numbered from 1 and tagged as entry rows.
func (r *Rows) Specs() []types.RowSpec {
	out := make([]types.RowSpec, len(r.rows))
	for i, spec := range r.rows {
		spec.Line = i + 1
		spec.Source = Source
		out[i] = spec
	}
	return out
}
