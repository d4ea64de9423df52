package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"landshare/internal/database"
	"landshare/internal/export"
	"landshare/internal/ingest"
	"landshare/internal/shares"
	"landshare/internal/types"
)

// sourceFlags select where register rows come from.
type sourceFlags struct {
	input   string
	sheet   string
	oracle  bool
	khewat  string
	parcels string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.input, "input", "i", "", "register file (.xlsx or .csv)")
	cmd.Flags().StringVar(&s.sheet, "sheet", "", "sheet to read from an .xlsx register (default: config, then first sheet)")
	cmd.Flags().BoolVar(&s.oracle, "oracle", false, "read the register from Oracle (DB_* environment / .env)")
	cmd.Flags().StringVar(&s.khewat, "khewat", "", "with --oracle, only this khewat")
	cmd.Flags().StringVar(&s.parcels, "parcels", "", "parcel shapefile supplying areas for rows without one")
}

// load reads rows from the selected source. Row-level problems come back
// as row errors; only source-level failures are returned as err.
func (s *sourceFlags) load(ctx context.Context) ([]types.RowSpec, []types.RowError, error) {
	var (
		rows    []types.RowSpec
		rowErrs []types.RowError
	)
	switch {
	case s.oracle && s.input != "":
		return nil, nil, errors.New("use either --input or --oracle, not both")
	case s.oracle:
		db, err := database.NewDatabase(ctx, database.LoadDatabaseConfig(), logger)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		rows, rowErrs, err = db.QueryLandRows(ctx, s.khewat)
		if err != nil {
			return nil, nil, err
		}
	case s.input != "":
		sheet := s.sheet
		if sheet == "" {
			sheet = cfg.Sheet
		}
		batch, err := ingest.ReadFile(s.input, sheet)
		if err != nil {
			return nil, nil, err
		}
		rows, rowErrs = batch.Rows, batch.Errors
		logger.Info("register loaded",
			zap.String("file", s.input),
			zap.Int("rows", len(rows)),
			zap.Int("skipped", len(rowErrs)))
	default:
		return nil, nil, errors.New("no register given: use --input FILE or --oracle")
	}

	if s.parcels != "" {
		parcels, err := ingest.LoadParcels(s.parcels)
		if err != nil {
			return nil, nil, err
		}
		n := parcels.Fill(rows)
		logger.Info("parcel areas applied",
			zap.String("layer", s.parcels),
			zap.Int("parcels", len(parcels)),
			zap.Int("rows_filled", n))
	}
	return rows, rowErrs, nil
}

// outcome is one full recomputation over the current rows.
type outcome struct {
	shares.Result
	Owners []types.OwnerSummary
	Totals []types.EstateShare
	Bad    []types.EstateShare
}

func (o outcome) report() export.Report {
	return export.Report{Records: o.Records, Owners: o.Owners, Invalid: o.Bad}
}

func calculate(rows []types.RowSpec) (outcome, error) {
	opts := cfg.AreaOptions()
	res := shares.Compute(rows, opts...)
	owners, err := shares.SummarizeOwners(res.Records, opts...)
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		Result: res,
		Owners: owners,
		Totals: shares.Totals(res.Records),
		Bad:    shares.Validate(res.Records, cfg.Tolerance),
	}, nil
}

func writeExport(path string, o outcome, chartEstate types.EstateID) error {
	id := uuid.NewString()
	start := time.Now()
	err := export.WriteFile(path, o.report(), export.Options{ChartEstate: chartEstate, Identifier: id})
	if err != nil {
		return err
	}
	logger.Info("results exported",
		zap.String("path", path),
		zap.String("id", id),
		zap.Int("records", len(o.Records)),
		zap.Duration("took", time.Since(start)))
	return nil
}

var computeFlags struct {
	source      sourceFlags
	output      string
	chartEstate string
	noExport    bool
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute owner shares from a register file or database and export them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, rowErrs, err := computeFlags.source.load(cmd.Context())
		if err != nil {
			return err
		}
		o, err := calculate(rows)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printOutcome(out, rowErrs, o)

		if computeFlags.noExport || len(o.Records) == 0 {
			return nil
		}
		path := computeFlags.output
		if path == "" {
			path = cfg.ExportPath
		}
		if err := writeExport(path, o, types.EstateID(computeFlags.chartEstate)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Results written to %s\n", path)
		return nil
	},
}

// printOutcome shows every table a computation produces.
func printOutcome(w io.Writer, ingestErrs []types.RowError, o outcome) {
	for _, e := range ingestErrs {
		fmt.Fprintln(w, errorStyle.Render(e.Error()))
	}
	for _, e := range o.Errors {
		fmt.Fprintln(w, errorStyle.Render(e.Error()))
	}
	if len(o.Records) == 0 {
		fmt.Fprintln(w, "No share rows to calculate.")
		return
	}

	fmt.Fprintln(w, titleStyle.Render("Individual Share Calculations"))
	fmt.Fprintln(w, recordsTable(o.Records))

	if len(o.Bad) > 0 {
		fmt.Fprintln(w, errorStyle.Render("Shares for these estates do not sum to 1:"))
		fmt.Fprintln(w, validationTable(o.Bad))
	} else {
		fmt.Fprintln(w, okStyle.Render("All estate shares sum to 1."))
	}

	fmt.Fprintln(w, titleStyle.Render("Owner-wise Summary"))
	fmt.Fprintln(w, ownersTable(o.Owners))
}

func init() {
	computeFlags.source.register(computeCmd)
	computeCmd.Flags().StringVarP(&computeFlags.output, "output", "o", "", "export path (default: config export_path)")
	computeCmd.Flags().StringVar(&computeFlags.chartEstate, "chart-estate", "", "add a pie chart of this estate (Khewat-Marba-Killa) to the export")
	computeCmd.Flags().BoolVar(&computeFlags.noExport, "no-export", false, "print tables only")
}
