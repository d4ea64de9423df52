package main

import (
	"github.com/spf13/cobra"

	"landshare/internal/shares"
	"landshare/internal/types"
)

var chartFlags struct {
	source sourceFlags
	estate string
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show the owner distribution of an estate as a terminal pie",
	Long: `chart loads a register like compute does, then lets you pick an estate
with the arrow keys and draws each owner's portion of it. With --estate
the chart of that estate is printed directly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, rowErrs, err := chartFlags.source.load(cmd.Context())
		if err != nil {
			return err
		}
		o, err := calculate(rows)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range append(rowErrs, o.Errors...) {
			cmd.PrintErrln(errorStyle.Render(e.Error()))
		}
		if chartFlags.estate != "" {
			estate := types.EstateID(chartFlags.estate)
			renderPie(out, estate, shares.Distribution(o.Records, estate))
			return nil
		}
		selectEstate(out, o.Records)
		return nil
	},
}

func init() {
	chartFlags.source.register(chartCmd)
	chartCmd.Flags().StringVar(&chartFlags.estate, "estate", "", "estate to chart (Khewat-Marba-Killa); skips the picker")
}
