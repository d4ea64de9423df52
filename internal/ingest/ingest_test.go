package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"landshare/internal/shares"
	"landshare/internal/types"
)

func workbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func header() []interface{} {
	out := make([]interface{}, len(Columns))
	for i, c := range Columns {
		out[i] = c
	}
	return out
}

func TestReadXLSX(t *testing.T) {
	buf := workbook(t, "Register", [][]interface{}{
		header(),
		{1, 2, 3, "Owner A", 8, 0, "1/2"},
		{1, 2, 3, "Owner B", 8, 0, "1/2"},
		{},
		{4, 5, 6, "Owner C", "eight", 0, "1"},
		{4, 5, 6, "Owner D", 3, 10, ""},
	})

	b, err := ReadXLSX(buf, "")
	require.NoError(t, err)
	require.Len(t, b.Rows, 2)

	assert.Equal(t, types.RowSpec{
		Khewat: "1", Marba: "2", Killa: "3", Owner: "Owner A",
		TotalKanal: 8, Share: "1/2", Line: 1, Source: "Register",
	}, b.Rows[0])
	assert.Equal(t, types.EstateID("1-2-3"), b.Rows[1].Estate())

	require.Len(t, b.Errors, 2)
	assert.Equal(t, 4, b.Errors[0].Line)
	assert.Equal(t, ColKanal, b.Errors[0].Field)
	assert.Equal(t, 5, b.Errors[1].Line)
	assert.Equal(t, ColShare, b.Errors[1].Field)

	res := shares.Compute(b.Rows)
	require.Empty(t, res.Errors)
	assert.Empty(t, shares.Validate(res.Records, shares.DefaultTolerance))
	assert.Equal(t, 4.0, res.Records[0].ShareKanal)
	assert.Equal(t, 0.5, res.Records[0].Acre)
}

func TestReadXLSXNamedSheet(t *testing.T) {
	buf := workbook(t, "Data", [][]interface{}{
		header(),
		{7, 1, 1, "Owner A", 4, 10, "1 1/2"},
	})
	b, err := ReadXLSX(buf, "Data")
	require.NoError(t, err)
	require.Len(t, b.Rows, 1)
	assert.Equal(t, 10.0, b.Rows[0].TotalMarla)
	assert.Equal(t, "1 1/2", b.Rows[0].Share)

	buf = workbook(t, "Data", [][]interface{}{header()})
	_, err = ReadXLSX(buf, "Missing")
	assert.Error(t, err)
}

func TestReadXLSXMissingColumns(t *testing.T) {
	buf := workbook(t, "Sheet1", [][]interface{}{
		{"Khewat No", "Owner Name", "Share Fraction"},
		{1, "A", "1"},
	})
	_, err := ReadXLSX(buf, "")
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "Marba No")
	assert.Contains(t, err.Error(), "Total Area (Marla)")
}

func TestReadCSV(t *testing.T) {
	in := strings.Join([]string{
		"khewat no, MARBA NO,Killa No,Owner Name,Total Area (Kanal),Total  Area (Marla),Share Fraction",
		"12.0,3,4,Owner A,\"1,200\",0,1/4",
		"12,3,4,Owner B,1200,,3/4",
		"12,3,4,Owner C,-5,0,1",
		"",
	}, "\n")

	b, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, b.Rows, 2)
	assert.Equal(t, "12", b.Rows[0].Khewat)
	assert.Equal(t, 1200.0, b.Rows[0].TotalKanal)
	assert.Equal(t, 0.0, b.Rows[1].TotalMarla)
	assert.Equal(t, b.Rows[0].Estate(), b.Rows[1].Estate())

	require.Len(t, b.Errors, 1)
	assert.Equal(t, 3, b.Errors[0].Line)
	assert.Equal(t, "csv", b.Errors[0].Source)
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestReadFileRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "register.ods")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err := ReadFile(path, "")
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestReadFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "register.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(Columns, ",")+"\n1,2,3,A,8,0,1\n"), 0o644))
	b, err := ReadFile(path, "")
	require.NoError(t, err)
	require.Len(t, b.Rows, 1)
}

func TestLoadParcelsAndFill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parcels.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	w.SetFields([]shp.Field{
		shp.StringField("KHEWAT", 10),
		shp.StringField("MARBA", 10),
		shp.StringField("KILLA", 10),
		shp.FloatField("KANAL", 12, 3),
		shp.FloatField("MARLA", 12, 3),
	})
	square := func(x float64) *shp.Polygon {
		p := shp.Polygon(*shp.NewPolyLine([][]shp.Point{{
			{X: x, Y: 0}, {X: x, Y: 1}, {X: x + 1, Y: 1}, {X: x + 1, Y: 0}, {X: x, Y: 0},
		}}))
		return &p
	}
	for i, attrs := range [][]interface{}{
		{"1", "2", "3", 8.0, 0.0},
		{"4", "5", "6", 12.0, 10.0},
	} {
		n := int(w.Write(square(float64(i * 2))))
		for field, v := range attrs {
			w.WriteAttribute(n, field, v)
		}
	}
	w.Close()

	parcels, err := LoadParcels(path)
	require.NoError(t, err)
	require.Len(t, parcels, 2)
	assert.Equal(t, Parcel{Estate: "4-5-6", Kanal: 12, Marla: 10}, parcels["4-5-6"])

	rows := []types.RowSpec{
		{Khewat: "1", Marba: "2", Killa: "3", Owner: "A", Share: "1"},
		{Khewat: "4", Marba: "5", Killa: "6", Owner: "B", TotalKanal: 1, Share: "1"},
		{Khewat: "9", Marba: "9", Killa: "9", Owner: "C", Share: "1"},
	}
	assert.Equal(t, 1, parcels.Fill(rows))
	assert.Equal(t, 8.0, rows[0].TotalKanal)
	assert.Equal(t, 1.0, rows[1].TotalKanal)
	assert.Equal(t, 0.0, rows[2].TotalKanal)
}

func TestLoadParcelsMissingFile(t *testing.T) {
	_, err := LoadParcels(filepath.Join(t.TempDir(), "none.shp"))
	assert.Error(t, err)
}
