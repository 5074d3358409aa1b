// Package export flattens a prediction into the tabular report shape: every
// FeatureRecord field as a column followed by predicted_kwh.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
)

var header = []string{
	"hour",
	"day_of_week",
	"temperature",
	"humidity",
	"occupancy",
	"building_type",
	"is_holiday",
	"previous_usage",
	"predicted_kwh",
}

// Header returns the report column names in order.
func Header() []string {
	out := make([]string, len(header))
	copy(out, header)
	return out
}

// Report is the JSON form of a flattened prediction.
type Report struct {
	model.FeatureRecord
	PredictedKWh float64 `json:"predicted_kwh"`
}

// Row flattens rec and kwh into one CSV row matching Header.
func Row(rec model.FeatureRecord, kwh float64) []string {
	holiday := "0"
	if rec.IsHoliday {
		holiday = "1"
	}
	return []string{
		strconv.Itoa(rec.Hour),
		strconv.Itoa(rec.DayOfWeek),
		strconv.FormatFloat(rec.Temperature, 'f', -1, 64),
		strconv.FormatFloat(rec.Humidity, 'f', -1, 64),
		strconv.Itoa(rec.Occupancy),
		rec.BuildingType.String(),
		holiday,
		strconv.FormatFloat(rec.PreviousUsage, 'f', -1, 64),
		strconv.FormatFloat(kwh, 'f', -1, 64),
	}
}

// WriteCSV writes the header and a single data row to w.
func WriteCSV(w io.Writer, rec model.FeatureRecord, kwh float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.Write(Row(rec, kwh)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the flattened report to w in JSON format.
func WriteJSON(w io.Writer, rec model.FeatureRecord, kwh float64) error {
	enc := json.NewEncoder(w)
	return enc.Encode(Report{FeatureRecord: rec, PredictedKWh: kwh})
}
