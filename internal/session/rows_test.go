package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landshare/internal/shares"
	"landshare/internal/types"
)

func TestRowsKeepsOnePlaceholder(t *testing.T) {
	rows := NewRows()
	assert.Equal(t, 1, rows.Len())
	assert.False(t, rows.RemoveLast())
	assert.Equal(t, 1, rows.Len())

	assert.Equal(t, 1, rows.Add())
	assert.Equal(t, 2, rows.Len())
	assert.True(t, rows.RemoveLast())
	assert.False(t, rows.RemoveLast())
}

func TestRowsSetAndSpecs(t *testing.T) {
	rows := NewRows()
	require.True(t, rows.Set(0, types.RowSpec{Khewat: "1", Marba: "2", Killa: "3", Owner: "A", TotalKanal: 8, Share: "1/2"}))
	i := rows.Add()
	require.True(t, rows.Set(i, types.RowSpec{Khewat: "1", Marba: "2", Killa: "3", Owner: "B", TotalKanal: 8, Share: "1/2"}))
	rows.Add()
	assert.False(t, rows.Set(9, types.RowSpec{}))

	specs := rows.Specs()
	require.Len(t, specs, 3)
	for i, s := range specs {
		assert.Equal(t, i+1, s.Line)
		assert.Equal(t, Source, s.Source)
	}

	// Specs is a copy.
	specs[0].Owner = "changed"
	got, ok := rows.Get(0)
	require.True(t, ok)
	assert.Equal(t, "A", got.Owner)

	res := shares.Compute(specs)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)
	assert.Empty(t, shares.Validate(res.Records, shares.DefaultTolerance))
}

func TestRowsNextFillsPlaceholderFirst(t *testing.T) {
	rows := NewRows()
	assert.Equal(t, 0, rows.Next())
	assert.Equal(t, 1, rows.Len())

	require.True(t, rows.Set(0, types.RowSpec{Owner: "A"}))
	assert.Equal(t, 1, rows.Next())
	assert.Equal(t, 2, rows.Len())
}

func TestRowsReplace(t *testing.T) {
	rows := NewRows()
	loaded := []types.RowSpec{
		{Khewat: "1", Owner: "A", Line: 4, Source: "csv"},
		{Khewat: "1", Owner: "B", Line: 7, Source: "csv"},
	}
	rows.Replace(loaded)
	require.Equal(t, 2, rows.Len())

	loaded[0].Owner = "changed"
	got, ok := rows.Get(0)
	require.True(t, ok)
	assert.Equal(t, "A", got.Owner)

	specs := rows.Specs()
	assert.Equal(t, 2, specs[1].Line)
	assert.Equal(t, Source, specs[1].Source)

	rows.Replace(nil)
	assert.Equal(t, 1, rows.Len())
	got, _ = rows.Get(0)
	assert.Equal(t, types.RowSpec{}, got)
}
