package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the register from sheet, or from the first sheet when
// sheet is empty.
func ReadXLSX(r io.Reader, sheet string) (Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Batch{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Batch{}, fmt.Errorf("workbook: %w", ErrEmptyTable)
		}
		sheet = sheets[0]
	}
	table, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Batch{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromTable(sheet, table)
}

// ReadCSV reads the register from comma separated text with a header row.
func ReadCSV(r io.Reader) (Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	table, err := cr.ReadAll()
	if err != nil {
		return Batch{}, fmt.Errorf("read csv: %w", err)
	}
	return fromTable("csv", table)
}

// ReadFile picks a reader by file extension.
func ReadFile(path, sheet string) (Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, sheet)
	case ".csv", ".txt":
		return ReadCSV(f)
	}
	return Batch{}, fmt.Errorf("unsupported file type %q (want .xlsx or .csv)", filepath.Ext(path))
}
