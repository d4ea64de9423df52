// Package ingest reads land register tables from uploaded files and turns
// them into typed rows. Column presence and cell types are checked here so
// the calculation never sees untyped data.
package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"landshare/internal/types"
)

// Register column headers.
const (
	ColKhewat = "Khewat No"
	ColMarba  = "Marba No"
	ColKilla  = "Killa No"
	ColOwner  = "Owner Name"
	ColKanal  = "Total Area (Kanal)"
	ColMarla  = "Total Area (Marla)"
	ColShare  = "Share Fraction"
)

// Columns lists the required headers in template order.
var Columns = []string{ColKhewat, ColMarba, ColKilla, ColOwner, ColKanal, ColMarla, ColShare}

var (
	// ErrMissingColumns means the header row lacks required columns.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrEmptyTable means the source has no header row.
	ErrEmptyTable = errors.New("no header row")
	errMissingShare   = errors.New("missing share fraction")
)

// Batch is the result of reading one source.
type Batch struct {
	Rows   []types.RowSpec
	Errors []types.RowError
}

func headerKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// mapHeader returns the column index of every required header.
func mapHeader(header []string) (map[string]int, error) {
	byKey := make(map[string]int, len(header))
	for i, h := range header {
		k := headerKey(h)
		if _, dup := byKey[k]; !dup {
			byKey[k] = i
		}
	}
	idx := make(map[string]int, len(Columns))
	var missing []string
	for _, c := range Columns {
		i, ok := byKey[headerKey(c)]
		if !ok {
			missing = append(missing, c)
			continue
		}
		idx[c] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

// fromTable converts a header row plus data rows into a Batch. Data rows
// are numbered from 1. Blank rows are ignored.
func fromTable(source string, table [][]string) (Batch, error) {
	if len(table) == 0 {
		return Batch{}, fmt.Errorf("%s: %w", source, ErrEmptyTable)
	}
	idx, err := mapHeader(table[0])
	if err != nil {
		return Batch{}, fmt.Errorf("%s: %w", source, err)
	}

	var b Batch
	for n, cells := range table[1:] {
		line := n + 1
		if blankRow(cells) {
			continue
		}
		cell := func(col string) string {
			i := idx[col]
			if i >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[i])
		}
		rowErr := func(field string, err error) {
			b.Errors = append(b.Errors, types.RowError{Line: line, Source: source, Field: field, Err: err})
		}

		kanal, err := parseNumber(cell(ColKanal))
		if err != nil {
			rowErr(ColKanal, err)
			continue
		}
		marla, err := parseNumber(cell(ColMarla))
		if err != nil {
			rowErr(ColMarla, err)
			continue
		}
		share := cell(ColShare)
		if share == "" {
			rowErr(ColShare, errMissingShare)
			continue
		}

		b.Rows = append(b.Rows, types.RowSpec{
			Khewat:     normalizeID(cell(ColKhewat)),
			Marba:      normalizeID(cell(ColMarba)),
			Killa:      normalizeID(cell(ColKilla)),
			Owner:      cell(ColOwner),
			TotalKanal: kanal,
			TotalMarla: marla,
			Share:      share,
			Line:       line,
			Source:     source,
		})
	}
	return b, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber reads an area cell. Blank cells count as zero; thousands
// separators are tolerated.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative area: %q", s)
	}
	return v, nil
}

// normalizeID drops a trailing ".0" that spreadsheets add to whole numbers
// so "12" and "12.0" name the same estate.
func normalizeID(s string) string {
	if strings.HasSuffix(s, ".0") {
		if _, err := strconv.Atoi(strings.TrimSuffix(s, ".0")); err == nil {
			return strings.TrimSuffix(s, ".0")
		}
	}
	return s
}
