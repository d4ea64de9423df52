package shares

import (
	"sort"

	"landshare/internal/types"
)

// Totals sums the share fractions of every estate, ordered by estate id.
func Totals(records []types.LandRecord) []types.EstateShare {
	sums := make(map[types.EstateID]float64)
	for _, r := range records {
		sums[r.Estate()] += r.Share
	}
	out := make([]types.EstateShare, 0, len(sums))
	for id, total := range sums {
		out = append(out, types.EstateShare{Estate: id, TotalShare: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Estate < out[j].Estate })
	return out
}

// Validate returns the estates whose shares do not add up to one within
// tolerance. A non-positive tolerance falls back to DefaultTolerance.
// Violations are warnings; callers keep going.
func Validate(records []types.LandRecord, tolerance float64) []types.EstateShare {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	var bad []types.EstateShare
	for _, t := range Totals(records) {
		if t.TotalShare < 1-tolerance || t.TotalShare > 1+tolerance {
			bad = append(bad, t)
		}
	}
	return bad
}
