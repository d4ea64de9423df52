package shares

import (
	"fmt"
	"sort"

	"landshare/internal/area"
	"landshare/internal/types"
)

// SummarizeOwners totals each owner's share area across all estates and
// breaks it down into land units. Owners are sorted by name.
func SummarizeOwners(records []types.LandRecord, opts ...area.Option) ([]types.OwnerSummary, error) {
	totals := make(map[string]float64)
	var owners []string
	for _, r := range records {
		if _, seen := totals[r.Owner]; !seen {
			owners = append(owners, r.Owner)
		}
		totals[r.Owner] += r.ShareKanal
	}
	sort.Strings(owners)

	out := make([]types.OwnerSummary, 0, len(owners))
	for _, owner := range owners {
		kanal := totals[owner]
		units, err := area.Split(kanal, opts...)
		if err != nil {
			return nil, fmt.Errorf("summarize owner %q: %w", owner, err)
		}
		out = append(out, types.OwnerSummary{
			Owner:      owner,
			ShareKanal: kanal,
			Units:      units,
			Acre:       area.Acres(kanal),
		})
	}
	return out, nil
}

// Estates lists the distinct estates in records, sorted.
func Estates(records []types.LandRecord) []types.EstateID {
	seen := make(map[types.EstateID]bool)
	var out []types.EstateID
	for _, r := range records {
		id := r.Estate()
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Distribution returns one pie slice per owner of estate, in first-seen
// order. Owners listed twice in the same estate are merged.
func Distribution(records []types.LandRecord, estate types.EstateID) []types.Slice {
	var (
		slices []types.Slice
		index  = make(map[string]int)
		total  float64
	)
	for _, r := range records {
		if r.Estate() != estate {
			continue
		}
		i, ok := index[r.Owner]
		if !ok {
			i = len(slices)
			index[r.Owner] = i
			slices = append(slices, types.Slice{Owner: r.Owner})
		}
		slices[i].Kanal += r.ShareKanal
		total += r.ShareKanal
	}
	if total > 0 {
		for i := range slices {
			slices[i].Percent = slices[i].Kanal / total * 100
		}
	}
	return slices
}
