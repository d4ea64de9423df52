package types

import (
	"fmt"
	"strings"

	"landshare/internal/area"
)

// RowSpec is one register row as it arrives from manual entry, an uploaded
// sheet or the database, after the ingestion boundary has checked types.
// Share is kept as text; it is parsed during computation.
type RowSpec struct {
	Khewat string
	Marba  string
	Killa  string
	Owner  string

	TotalKanal float64
	TotalMarla float64
	Share      string

	// Line is the 1-based position of the row in its source, used in
	// error messages.
	Line   int
	Source string
}

// Estate returns the Khewat-Marba-Killa grouping key of the row.
func (r RowSpec) Estate() EstateID {
	return NewEstateID(r.Khewat, r.Marba, r.Killa)
}

// EstateID identifies a survey estate as "Khewat-Marba-Killa".
type EstateID string

// NewEstateID joins the three register identifiers.
func NewEstateID(khewat, marba, killa string) EstateID {
	return EstateID(strings.TrimSpace(khewat) + "-" + strings.TrimSpace(marba) + "-" + strings.TrimSpace(killa))
}

// LandRecord is the computed share of one owner in one estate.
type LandRecord struct {
	Khewat string
	Marba  string
	Killa  string
	Owner  string

	ShareText  string
	Share      float64
	ShareKanal float64
	Units area.Breakdown
	Acre float64

	Line int
}

// Estate returns the record's grouping key.
func (r LandRecord) Estate() EstateID {
	return NewEstateID(r.Khewat, r.Marba, r.Killa)
}

// OwnerSummary is the total holding of one owner across all estates.
type OwnerSummary struct {
	Owner      string
	ShareKanal float64
	Units area.Breakdown
	Acre float64
}

// EstateShare is the sum of all share fractions recorded for an estate.
type EstateShare struct {
	Estate     EstateID
	TotalShare float64
}

// Slice is one owner's portion of an estate, for pie charts.
type Slice struct {
	Owner   string
	Kanal   float64
	Percent float64
}

// RowError reports a row that was skipped. It never aborts processing of
// other rows.
type RowError struct {
	Line   int
	Source string
	Field  string
	Err    error
}

func (e *RowError) Error() string {
	src := e.Source
	if src == "" {
		src = "row"
	}
	if e.Field != "" {
		return fmt.Sprintf("%s %d: %s: %v", src, e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %d: %v", src, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
