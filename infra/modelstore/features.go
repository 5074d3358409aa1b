package modelstore

import (
	"fmt"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
)

// Numeric feature names understood by model artifacts, in vector order.
var numericFeatures = []string{
	"hour",
	"day_of_week",
	"temperature",
	"humidity",
	"occupancy",
	"is_holiday",
	"previous_usage",
}

func isNumericFeature(name string) bool {
	for _, f := range numericFeatures {
		if f == name {
			return true
		}
	}
	return false
}

// featureVector returns the record's numeric features in numericFeatures order.
func featureVector(rec model.FeatureRecord) []float64 {
	holiday := 0.0
	if rec.IsHoliday {
		holiday = 1
	}
	return []float64{
		float64(rec.Hour),
		float64(rec.DayOfWeek),
		rec.Temperature,
		rec.Humidity,
		float64(rec.Occupancy),
		holiday,
		rec.PreviousUsage,
	}
}

func numericFeature(rec model.FeatureRecord, name string) (float64, error) {
	vec := featureVector(rec)
	for i, f := range numericFeatures {
		if f == name {
			return vec[i], nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", name)
}
