package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/inference"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/logger"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/modelstore"
	"github.com/Madhumita-crypto/campus-energy-optimizer/pkg/export"
)

type predictFlags struct {
	hour          int
	dayOfWeek     int
	temperature   float64
	humidity      float64
	occupancy     int
	buildingType  string
	holiday       string
	previousUsage float64
	report        bool
	asJSON        bool
}

func newPredictCmd(load configLoader) *cobra.Command {
	var f predictFlags
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict hourly usage for one set of inputs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			raw := f.raw(cmd)
			b, err := inference.NewBuilder(cfg.Inference)
			if err != nil {
				return err
			}
			rec, err := b.Build(raw)
			if err != nil {
				return err
			}
			sel, err := modelstore.Select(cfg.Model, logger.New("modelstore"))
			if err != nil {
				return err
			}
			res, err := b.Predict(rec, sel.Model)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case f.report:
				return export.WriteCSV(out, rec, res.PredictedKWh)
			case f.asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"record": rec, "result": res, "advice": res.Tier.Advice()})
			}
			_, err = fmt.Fprintf(out, "Predicted usage: %.2f kWh\nTier: %s\nAdvice: %s\nModel: %s\n",
				res.PredictedKWh, res.Tier, res.Tier.Advice(), res.Model)
			return err
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.hour, "hour", 0, "hour of day (0-23)")
	fl.IntVar(&f.dayOfWeek, "day-of-week", 0, "day of week (0=Monday ... 6=Sunday)")
	fl.Float64Var(&f.temperature, "temperature", 0, "outside temperature in °C")
	fl.Float64Var(&f.humidity, "humidity", 0, "relative humidity in %")
	fl.IntVar(&f.occupancy, "occupancy", 0, "number of occupants")
	fl.StringVar(&f.buildingType, "building-type", "", "Academic, Hostel, Library, Admin or Lab")
	fl.StringVar(&f.holiday, "holiday", "", "holiday flag (yes/no, true/false, 1/0)")
	fl.Float64Var(&f.previousUsage, "previous-usage", 0, "usage of the previous hour in kWh")
	fl.BoolVar(&f.report, "report", false, "write the CSV report row instead of text")
	fl.BoolVar(&f.asJSON, "json", false, "write the result as JSON")
	return cmd
}

// raw only sets the fields whose flags were given so missing inputs are
// reported by validation.
func (f *predictFlags) raw(cmd *cobra.Command) model.RawInputs {
	var raw model.RawInputs
	set := cmd.Flags().Changed
	if set("hour") {
		raw.Hour = &f.hour
	}
	if set("day-of-week") {
		raw.DayOfWeek = &f.dayOfWeek
	}
	if set("temperature") {
		raw.Temperature = &f.temperature
	}
	if set("humidity") {
		raw.Humidity = &f.humidity
	}
	if set("occupancy") {
		raw.Occupancy = &f.occupancy
	}
	if set("building-type") {
		raw.BuildingType = &f.buildingType
	}
	if set("holiday") {
		raw.IsHoliday = f.holiday
	}
	if set("previous-usage") {
		raw.PreviousUsage = &f.previousUsage
	}
	return raw
}
