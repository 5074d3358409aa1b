package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/averages"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/logger"
)

var errNoAverages = errors.New("no historical averages available")

func newAveragesCmd(load configLoader) *cobra.Command {
	var buildingType string
	cmd := &cobra.Command{
		Use:   "averages",
		Short: "Print historical hourly averages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			table := averages.Load(cfg.Averages, logger.New("averages"))
			if table == nil {
				return errNoAverages
			}
			out := cmd.OutOrStdout()
			if buildingType == "" {
				for _, bt := range table.BuildingTypes() {
					if _, err := fmt.Fprintln(out, bt); err != nil {
						return err
					}
				}
				return nil
			}
			bt, err := model.ParseBuildingType(buildingType)
			if err != nil {
				return err
			}
			rows, ok := table.ForBuilding(bt)
			if !ok {
				return fmt.Errorf("no averages for %s", bt)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "HOUR\tAVG_KWH")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%.2f\n", r.Hour, r.AvgKWh)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&buildingType, "building-type", "", "building type to print; lists types when empty")
	return cmd
}
