// Package export writes computed land shares to an .xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"landshare/internal/shares"
	"landshare/internal/types"
)

// Sheet names of the exported workbook.
const (
	SheetDetailed   = "Detailed Output"
	SheetOwners     = "Owner Summary"
	SheetValidation = "Validation Report"
)

// DefaultFileName is the export name used when none is configured.
const DefaultFileName = "land_share_results.xlsx"

var (
	detailedHeader   = []interface{}{"Khewat", "Marba", "Killa", "Owner", "Share Fraction", "Share Area (Kanal)", "Kila", "Kanal", "Marla", "Sarshai", "Acre", "Estate"}
	ownerHeader      = []interface{}{"Owner", "Share Area (Kanal)", "Kila", "Kanal", "Marla", "Sarshai", "Acre"}
	validationHeader = []interface{}{"Estate", "Total Share"}
)

// Report is everything that goes into the workbook.
type Report struct {
	Records []types.LandRecord
	Owners  []types.OwnerSummary
	Invalid []types.EstateShare
}

// Options controls optional parts of the workbook.
type Options struct {
	// ChartEstate adds a pie chart of that estate's owners to the owner
	// summary sheet.
	ChartEstate types.EstateID
	// Identifier is stored in the document properties. A random UUID is
	// used when empty.
	Identifier string
}

// Build assembles the workbook. The caller must Close the returned file.
func Build(r Report, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := build(f, r, opts); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func build(f *excelize.File, r Report, opts Options) error {
	if err := f.SetSheetName("Sheet1", SheetDetailed); err != nil {
		return err
	}
	for _, name := range []string{SheetOwners, SheetValidation} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %q: %w", name, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	detailed := make([][]interface{}, 0, len(r.Records))
	for _, rec := range r.Records {
		detailed = append(detailed, []interface{}{
			rec.Khewat, rec.Marba, rec.Killa, rec.Owner, rec.ShareText, rec.ShareKanal,
			rec.Units.Kila, rec.Units.Kanal, rec.Units.Marla, rec.Units.Sarshai, rec.Acre,
			string(rec.Estate()),
		})
	}
	if err := writeTable(f, SheetDetailed, detailedHeader, detailed, bold); err != nil {
		return err
	}

	owners := make([][]interface{}, 0, len(r.Owners))
	for _, o := range r.Owners {
		owners = append(owners, []interface{}{
			o.Owner, o.ShareKanal, o.Units.Kila, o.Units.Kanal, o.Units.Marla, o.Units.Sarshai, o.Acre,
		})
	}
	if err := writeTable(f, SheetOwners, ownerHeader, owners, bold); err != nil {
		return err
	}

	invalid := make([][]interface{}, 0, len(r.Invalid))
	for _, v := range r.Invalid {
		invalid = append(invalid, []interface{}{string(v.Estate), v.TotalShare})
	}
	if err := writeTable(f, SheetValidation, validationHeader, invalid, bold); err != nil {
		return err
	}

	if opts.ChartEstate != "" {
		if err := addPie(f, r.Records, opts.ChartEstate, bold); err != nil {
			return err
		}
	}

	id := opts.Identifier
	if id == "" {
		id = uuid.NewString()
	}
	return f.SetDocProps(&excelize.DocProperties{
		Identifier:  id,
		Title:       "Land Share Results",
		Subject:     "Estate share breakdown",
		Creator:     "landshare",
		Description: fmt.Sprintf("%d records, %d owners, %d estates failing validation", len(r.Records), len(r.Owners), len(r.Invalid)),
	})
}

func writeTable(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// chartColumn is where the pie's source data goes on the owner sheet,
// clear of the summary table.
const chartColumn = 10

func addPie(f *excelize.File, records []types.LandRecord, estate types.EstateID, headerStyle int) error {
	slices := shares.Distribution(records, estate)
	if len(slices) == 0 {
		return fmt.Errorf("chart: no records for estate %q", estate)
	}

	header := []interface{}{"Owner", "Share Area (Kanal)"}
	start, err := excelize.CoordinatesToCellName(chartColumn, 1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetOwners, start, &header); err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(chartColumn+1, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetOwners, start, end, headerStyle); err != nil {
		return err
	}
	for i, s := range slices {
		cell, err := excelize.CoordinatesToCellName(chartColumn, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{s.Owner, s.Kanal}
		if err := f.SetSheetRow(SheetOwners, cell, &row); err != nil {
			return err
		}
	}

	nameCol, err := excelize.ColumnNumberToName(chartColumn)
	if err != nil {
		return err
	}
	valCol, err := excelize.ColumnNumberToName(chartColumn + 1)
	if err != nil {
		return err
	}
	lastRow := len(slices) + 1
	anchor, err := excelize.CoordinatesToCellName(chartColumn+3, 1)
	if err != nil {
		return err
	}
	return f.AddChart(SheetOwners, anchor, &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$%s$1", SheetOwners, valCol),
			Categories: fmt.Sprintf("'%s'!$%s$2:$%s$%d", SheetOwners, nameCol, nameCol, lastRow),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", SheetOwners, valCol, valCol, lastRow),
		}},
		Title:  []excelize.RichTextRun{{Text: "Land Share Distribution for Estate: " + string(estate)}},
		Legend: excelize.ChartLegend{Position: "right"},
		PlotArea: excelize.ChartPlotArea{
			ShowPercent: true,
		},
	})
}

// Write streams the workbook to w.
func Write(w io.Writer, r Report, opts Options) error {
	f, err := Build(r, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile saves the workbook at path.
func WriteFile(path string, r Report, opts Options) error {
	f, err := Build(r, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
