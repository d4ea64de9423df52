package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"landshare/internal/area"
)

var convertCmd = &cobra.Command{
	Use:   "convert KANAL [MARLA]",
	Short: "Break an area down into kila, kanal, marla and sarshai",
	Example: `  landshare convert 12.5
  landshare convert 10 7`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kanal, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("kanal: %w", err)
		}
		var marla float64
		if len(args) == 2 {
			if marla, err = strconv.ParseFloat(args[1], 64); err != nil {
				return fmt.Errorf("marla: %w", err)
			}
		}
		total := area.FromKanalMarla(kanal, marla)
		b, err := area.Split(total, cfg.AreaOptions()...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s kanal = %s = %s acre\n", num(total), b, num(area.Acres(total)))
		return nil
	},
}
