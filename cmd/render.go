package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"landshare/internal/area"
	"landshare/internal/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	pieColors = []lipgloss.Color{"39", "208", "42", "199", "226", "129", "45", "160"}
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func units(b area.Breakdown) []string {
	return []string{strconv.Itoa(b.Kila), strconv.Itoa(b.Kanal), strconv.Itoa(b.Marla), strconv.Itoa(b.Sarshai)}
}

func recordsTable(records []types.LandRecord) string {
	t := newTable("Khewat", "Marba", "Killa", "Owner", "Share Fraction", "Share Area (Kanal)", "Kila", "Kanal", "Marla", "Sarshai", "Acre")
	for _, r := range records {
		row := []string{r.Khewat, r.Marba, r.Killa, r.Owner, r.ShareText, num(r.ShareKanal)}
		row = append(row, units(r.Units)...)
		t.Row(append(row, num(r.Acre))...)
	}
	return t.Render()
}

func ownersTable(owners []types.OwnerSummary) string {
	t := newTable("Owner", "Share Area (Kanal)", "Kila", "Kanal", "Marla", "Sarshai", "Acre")
	for _, o := range owners {
		row := append([]string{o.Owner, num(o.ShareKanal)}, units(o.Units)...)
		t.Row(append(row, num(o.Acre))...)
	}
	return t.Render()
}

func validationTable(totals []types.EstateShare) string {
	t := newTable("Estate", "Total Share")
	for _, v := range totals {
		t.Row(string(v.Estate), num(v.TotalShare))
	}
	return t.Render()
}

const pieWidth = 40

// renderPie draws an estate's owner distribution as proportional bars.
func renderPie(w io.Writer, estate types.EstateID, slices []types.Slice) {
	fmt.Fprintln(w, titleStyle.Render("Land Share Distribution for Estate: "+string(estate)))
	if len(slices) == 0 {
		fmt.Fprintln(w, "No shares recorded for this estate.")
		return
	}

	nameWidth := 0
	for _, s := range slices {
		if len(s.Owner) > nameWidth {
			nameWidth = len(s.Owner)
		}
	}
	for i, s := range slices {
		n := int(s.Percent/100*pieWidth + 0.5)
		bar := lipgloss.NewStyle().Foreground(pieColors[i%len(pieColors)]).Render(strings.Repeat("█", n))
		b, _ := area.Split(s.Kanal, cfg.AreaOptions()...)
		fmt.Fprintf(w, "%-*s %s%s %5.1f%%  %s kanal (%s)\n",
			nameWidth, s.Owner, bar, strings.Repeat(" ", pieWidth-n), s.Percent, num(s.Kanal), b)
	}
}
