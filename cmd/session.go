package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"landshare/internal/ingest"
	"landshare/internal/session"
	"landshare/internal/types"
)

const sessionHelp = `Commands:
  add            fill in a new row (the first add fills row 1)
  edit N         re-enter row N
  remove         drop the last row (one row always remains)
  list           show the rows entered so far
  load FILE [SHEET]
                 replace the rows with a register file for editing
  compute        calculate shares, validation and owner summary
  chart          pick an estate and show its owner distribution
  export [PATH]  write the results workbook
  help           show this text
  quit           leave (blank line also quits)`

// runSession is the manual entry mode: an ordered list of rows edited at
// the prompt, recomputed in full whenever results are asked for.
func runSession(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	rows := session.NewRows()

	fmt.Fprintln(out, titleStyle.Render("Rural Land Share Calculator - Manual Entry"))
	fmt.Fprintln(out, sessionHelp)

	for {
		fmt.Fprintf(out, "\n[%d row(s)] command: ", rows.Len())
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		fields := strings.Fields(line)
		switch strings.ToLower(fields[0]) {
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			fmt.Fprintln(out, sessionHelp)
		case "add":
			i := rows.Next()
			spec, ok := promptRow(reader, out, i, types.RowSpec{})
			if !ok {
				return nil
			}
			rows.Set(i, spec)
		case "edit":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: edit N")
				continue
			}
			n, convErr := strconv.Atoi(fields[1])
			cur, ok := rows.Get(n - 1)
			if convErr != nil || !ok {
				fmt.Fprintf(out, "No row %s (have %d).\n", fields[1], rows.Len())
				continue
			}
			spec, ok := promptRow(reader, out, n-1, cur)
			if !ok {
				return nil
			}
			rows.Set(n-1, spec)
		case "remove":
			if !rows.RemoveLast() {
				fmt.Fprintln(out, "At least one row is kept.")
			}
		case "list":
			listRows(out, rows.Specs())
		case "load":
			if len(fields) < 2 || len(fields) > 3 {
				fmt.Fprintln(out, "usage: load FILE [SHEET]")
				continue
			}
			loadRows(out, rows, fields[1:]...)
		case "compute":
			o, err := calculate(rows.Specs())
			if err != nil {
				return err
			}
			printOutcome(out, nil, o)
		case "chart":
			o, err := calculate(rows.Specs())
			if err != nil {
				return err
			}
			if len(o.Records) == 0 {
				fmt.Fprintln(out, "No share rows to chart.")
				continue
			}
			selectEstate(out, o.Records)
		case "export":
			path := cfg.ExportPath
			if len(fields) > 1 {
				path = fields[1]
			}
			o, err := calculate(rows.Specs())
			if err != nil {
				return err
			}
			if len(o.Records) == 0 {
				fmt.Fprintln(out, "No share rows to export.")
				continue
			}
			if err := writeExport(path, o, ""); err != nil {
				logger.Error("export failed", zap.String("path", path), zap.Error(err))
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
				continue
			}
			fmt.Fprintf(out, "Results written to %s\n", path)
		default:
			fmt.Fprintf(out, "Unknown command %q - type help.\n", fields[0])
		}
		if err != nil {
			return nil
		}
	}
}

// loadRows replaces the session rows with a register file so they can be
// reviewed and edited before computing. Rows the file gets wrong are
// reported and left out.
func loadRows(out io.Writer, rows *session.Rows, args ...string) {
	sheet := cfg.Sheet
	if len(args) > 1 {
		sheet = args[1]
	}
	batch, err := ingest.ReadFile(args[0], sheet)
	if err != nil {
		logger.Error("load failed", zap.String("file", args[0]), zap.Error(err))
		fmt.Fprintln(out, errorStyle.Render(err.Error()))
		return
	}
	for _, e := range batch.Errors {
		fmt.Fprintln(out, errorStyle.Render(e.Error()))
	}
	rows.Replace(batch.Rows)
	logger.Info("register loaded into session",
		zap.String("file", args[0]),
		zap.Int("rows", len(batch.Rows)),
		zap.Int("skipped", len(batch.Errors)))

	fmt.Fprintln(out, titleStyle.Render("Uploaded Data Preview"))
	listRows(out, rows.Specs())
	fmt.Fprintf(out, "Loaded %d row(s) from %s. Use edit N to change one.\n", len(batch.Rows), args[0])
}

// promptRow asks for every field of row i, offering cur as the default.
// It reports false when input ends.
func promptRow(reader *bufio.Reader, out io.Writer, i int, cur types.RowSpec) (types.RowSpec, bool) {
	fmt.Fprintf(out, "Entry %d (Enter keeps the value in brackets)\n", i+1)

	ask := func(label, def string) (string, bool) {
		fmt.Fprintf(out, "  %-22s [%s]: ", label, def)
		s, err := reader.ReadString('\n')
		s = strings.TrimSpace(s)
		if err != nil && s == "" {
			return def, false
		}
		if s == "" {
			return def, true
		}
		return s, true
	}
	askNumber := func(label string, def, max float64) (float64, bool) {
		for {
			s, ok := ask(fmt.Sprintf("%s (0-%s)", label, num(max)), num(def))
			if !ok {
				return def, false
			}
			v, err := strconv.ParseFloat(s, 64)
			if err == nil && v >= 0 && v <= max {
				return v, true
			}
			fmt.Fprintf(out, "  enter a number between 0 and %s\n", num(max))
		}
	}

	var ok bool
	spec := cur
	if spec.Khewat, ok = ask("Khewat No", cur.Khewat); !ok {
		return cur, false
	}
	if spec.Marba, ok = ask("Marba No", cur.Marba); !ok {
		return cur, false
	}
	if spec.Killa, ok = ask("Killa No", cur.Killa); !ok {
		return cur, false
	}
	if spec.TotalKanal, ok = askNumber("Total Area (Kanal)", cur.TotalKanal, 10000); !ok {
		return cur, false
	}
	if spec.TotalMarla, ok = askNumber("Total Area (Marla)", cur.TotalMarla, 19); !ok {
		return cur, false
	}
	if spec.Owner, ok = ask("Owner Name", cur.Owner); !ok {
		return cur, false
	}
	if spec.Share, ok = ask("Share Fraction (e.g. 1/2)", cur.Share); !ok {
		return cur, false
	}
	return spec, true
}

func listRows(out io.Writer, specs []types.RowSpec) {
	t := newTable("#", "Khewat No", "Marba No", "Killa No", "Total Area (Kanal)", "Total Area (Marla)", "Owner Name", "Share Fraction")
	for _, s := range specs {
		t.Row(strconv.Itoa(s.Line), s.Khewat, s.Marba, s.Killa, num(s.TotalKanal), num(s.TotalMarla), s.Owner, s.Share)
	}
	fmt.Fprintln(out, t.Render())
}
