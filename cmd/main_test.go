package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"landshare/internal/area"
	"landshare/internal/config"
	"landshare/internal/export"
	"landshare/internal/ingest"
)

func useDefaults(t *testing.T) {
	t.Helper()
	cfg = config.DefaultConfig()
	logger = zap.NewNop()
}

func TestSessionEndToEnd(t *testing.T) {
	useDefaults(t)
	out := filepath.Join(t.TempDir(), "results.xlsx")

	script := strings.Join([]string{
		"edit 1", "1", "2", "3", "8", "0", "Owner A", "1/2",
		"add", "1", "2", "3", "8", "0", "Owner B", "1/2",
		"list",
		"compute",
		"export " + out,
		"remove",
		"remove",
		"quit",
	}, "\n") + "\n"

	var buf bytes.Buffer
	require.NoError(t, runSession(strings.NewReader(script), &buf))

	text := buf.String()
	assert.Contains(t, text, "Individual Share Calculations")
	assert.Contains(t, text, "All estate shares sum to 1.")
	assert.Contains(t, text, "Owner-wise Summary")
	assert.Contains(t, text, "At least one row is kept.")
	assert.Contains(t, text, "Results written to "+out)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetDetailed)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "4", rows[1][5])
	assert.Equal(t, "0.5", rows[2][10])
}

func TestSessionRejectsOutOfRangeArea(t *testing.T) {
	useDefaults(t)
	script := "edit 1\n1\n2\n3\n8\n25\n5\nOwner A\nabc\ncompute\n\n"

	var buf bytes.Buffer
	require.NoError(t, runSession(strings.NewReader(script), &buf))

	text := buf.String()
	assert.Contains(t, text, "enter a number between 0 and 19")
	assert.Contains(t, text, "invalid share fraction")
	assert.Contains(t, text, "No share rows to calculate.")
}

func TestSessionUnknownCommandAndEOF(t *testing.T) {
	useDefaults(t)
	var buf bytes.Buffer
	require.NoError(t, runSession(strings.NewReader("frobnicate\nedit 7\nadd\n1\n"), &buf))
	assert.Contains(t, buf.String(), `Unknown command "frobnicate"`)
	assert.Contains(t, buf.String(), "No row 7")
}

func TestSessionAddFillsFirstRow(t *testing.T) {
	useDefaults(t)
	script := strings.Join([]string{
		"add", "9", "1", "1", "4", "0", "Owner A", "1",
		"compute",
		"quit",
	}, "\n") + "\n"

	var buf bytes.Buffer
	require.NoError(t, runSession(strings.NewReader(script), &buf))

	text := buf.String()
	assert.Contains(t, text, "Entry 1 ")
	assert.NotContains(t, text, "Entry 2 ")
	assert.Contains(t, text, "[1 row(s)] command:")
	assert.Contains(t, text, "All estate shares sum to 1.")
}

func TestSessionLoadThenEdit(t *testing.T) {
	useDefaults(t)
	register := writeRegister(t,
		"1,2,3,Owner A,8,0,1/2",
		"1,2,3,Owner B,8,0,1/3",
		"1,2,3,Owner C,x,0,1/2",
	)
	script := strings.Join([]string{
		"load " + register,
		"compute",
		"edit 2", "", "", "", "", "", "", "1/2",
		"compute",
		"quit",
	}, "\n") + "\n"

	var buf bytes.Buffer
	require.NoError(t, runSession(strings.NewReader(script), &buf))

	text := buf.String()
	assert.Contains(t, text, "csv 3: Total Area (Kanal)")
	assert.Contains(t, text, "Uploaded Data Preview")
	assert.Contains(t, text, "Loaded 2 row(s) from "+register)
	assert.Contains(t, text, "[2 row(s)] command:")

	before, after, found := strings.Cut(text, "Entry 2 ")
	require.True(t, found)
	assert.Contains(t, before, "Shares for these estates do not sum to 1:")
	assert.Contains(t, after, "All estate shares sum to 1.")
}

func TestSessionLoadMissingFile(t *testing.T) {
	useDefaults(t)
	var buf bytes.Buffer
	script := "load " + filepath.Join(t.TempDir(), "nope.csv") + "\nload\nquit\n"
	require.NoError(t, runSession(strings.NewReader(script), &buf))
	assert.Contains(t, buf.String(), "no such file")
	assert.Contains(t, buf.String(), "usage: load FILE [SHEET]")
	assert.Contains(t, buf.String(), "[1 row(s)] command:")
}

func writeRegister(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "register.csv")
	body := strings.Join(ingest.Columns, ",") + "\n" + strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	// Config goes right after the subcommand so a "--" in args still ends
	// flag parsing.
	withConfig := append([]string{args[0], "--config=" + filepath.Join(t.TempDir(), "none.yaml")}, args[1:]...)
	rootCmd.SetArgs(withConfig)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestComputeCommand(t *testing.T) {
	register := writeRegister(t,
		"1,2,3,Owner A,8,0,1/2",
		"1,2,3,Owner B,8,0,1/2",
		"4,5,6,Owner A,10,10,1/3",
		"4,5,6,Owner C,ten,0,1/3",
	)
	out := filepath.Join(t.TempDir(), "out.xlsx")

	text, err := execute(t, "compute", "-i", register, "-o", out, "--chart-estate", "1-2-3")
	require.NoError(t, err)
	assert.Contains(t, text, "csv 4: Total Area (Kanal)")
	assert.Contains(t, text, "Shares for these estates do not sum to 1:")
	assert.Contains(t, text, "4-5-6")
	assert.Contains(t, text, "Results written to "+out)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetValidation)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "4-5-6", rows[1][0])
}

func TestComputeCommandNeedsSource(t *testing.T) {
	computeFlags.source = sourceFlags{}
	_, err := execute(t, "compute", "--no-export")
	assert.ErrorContains(t, err, "no register given")
}

func TestChartCommandWithEstate(t *testing.T) {
	register := writeRegister(t,
		"7,1,1,Owner A,12,0,1/4",
		"7,1,1,Owner B,12,0,3/4",
	)
	text, err := execute(t, "chart", "-i", register, "--estate", "7-1-1")
	require.NoError(t, err)
	assert.Contains(t, text, "Land Share Distribution for Estate: 7-1-1")
	assert.Contains(t, text, " 25.0%")
	assert.Contains(t, text, " 75.0%")
	assert.Contains(t, text, "1 kila 1 kanal 0 marla 0 sarshai")
}

func TestConvertCommand(t *testing.T) {
	text, err := execute(t, "convert", "10", "10")
	require.NoError(t, err)
	assert.Contains(t, text, "10.5 kanal = 1 kila 2 kanal 10 marla 0 sarshai = 1.313 acre")

	_, err = execute(t, "convert", "--", "-3")
	assert.ErrorIs(t, err, area.ErrInvalidArea)
}
