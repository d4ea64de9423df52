// Package shares turns register rows into per-owner land records and
// checks that every estate is fully allotted.
package shares

import (
	"fmt"
	"math"
	"strings"

	"landshare/internal/area"
	"landshare/internal/types"
)

// DefaultTolerance is how far an estate's share total may drift from one.
const DefaultTolerance = 0.01

// Result is the outcome of one full computation pass.
type Result struct {
	Records []types.LandRecord
	Errors  []types.RowError
}

// Compute converts rows into land records. It is a pure function of rows:
// every call recomputes everything. Rows without a share are placeholders
// and are skipped silently; rows with a malformed share or area are
// reported in Result.Errors and excluded from the records.
func Compute(rows []types.RowSpec, opts ...area.Option) Result {
	var res Result
	for _, row := range rows {
		if strings.TrimSpace(row.Share) == "" {
			continue
		}
		rec, err := computeRow(row, opts)
		if err != nil {
			res.Errors = append(res.Errors, *err)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

func computeRow(row types.RowSpec, opts []area.Option) (types.LandRecord, *types.RowError) {
	rowErr := func(field string, err error) *types.RowError {
		return &types.RowError{Line: row.Line, Source: row.Source, Field: field, Err: err}
	}

	share, err := area.ParseFraction(row.Share)
	if err != nil {
		return types.LandRecord{}, rowErr("Share Fraction", err)
	}
	if row.TotalKanal < 0 || math.IsNaN(row.TotalKanal) {
		return types.LandRecord{}, rowErr("Total Area (Kanal)", fmt.Errorf("%w: %v", area.ErrInvalidArea, row.TotalKanal))
	}
	if row.TotalMarla < 0 || math.IsNaN(row.TotalMarla) {
		return types.LandRecord{}, rowErr("Total Area (Marla)", fmt.Errorf("%w: %v", area.ErrInvalidArea, row.TotalMarla))
	}

	shareKanal := area.FromKanalMarla(row.TotalKanal, row.TotalMarla) * share
	units, err := area.Split(shareKanal, opts...)
	if err != nil {
		return types.LandRecord{}, rowErr("Share Area", err)
	}

	return types.LandRecord{
		Khewat:     row.Khewat,
		Marba:      row.Marba,
		Killa:      row.Killa,
		Owner:      row.Owner,
		ShareText:  strings.TrimSpace(row.Share),
		Share:      share,
		ShareKanal: shareKanal,
		Units:      units,
		Acre:       area.Acres(shareKanal),
		Line:       row.Line,
	}, nil
}
