package inference

import (
	"fmt"
	"math"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/prediction"
)

// Builder validates raw inputs against configured bounds and classifies
// model output. A Builder is immutable and safe for concurrent use.
type Builder struct {
	cfg Config
}

// NewBuilder returns a Builder using cfg after applying defaults.
func NewBuilder(cfg Config) (*Builder, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("inference config: %w", err)
	}
	return &Builder{cfg: cfg}, nil
}

// Config returns the effective configuration.
func (b *Builder) Config() Config { return b.cfg }

// Build converts raw into a FeatureRecord. Every missing or out-of-range
// field is reported in the returned *ValidationError.
func (b *Builder) Build(raw model.RawInputs) (model.FeatureRecord, error) {
	var (
		rec  model.FeatureRecord
		verr ValidationError
		bnd  = b.cfg.Bounds
	)

	if raw.Hour == nil {
		verr.add("hour", "missing")
	} else if *raw.Hour < 0 || *raw.Hour > 23 {
		verr.add("hour", "%d outside 0-23", *raw.Hour)
	} else {
		rec.Hour = *raw.Hour
	}

	if raw.DayOfWeek == nil {
		verr.add("day_of_week", "missing")
	} else if *raw.DayOfWeek < 0 || *raw.DayOfWeek > 6 {
		verr.add("day_of_week", "%d outside 0-6", *raw.DayOfWeek)
	} else {
		rec.DayOfWeek = *raw.DayOfWeek
	}

	if v, ok := checkRange(&verr, "temperature", raw.Temperature, bnd.TemperatureMin, bnd.TemperatureMax); ok {
		rec.Temperature = v
	}
	if v, ok := checkRange(&verr, "humidity", raw.Humidity, bnd.HumidityMin, bnd.HumidityMax); ok {
		rec.Humidity = v
	}

	if raw.Occupancy == nil {
		verr.add("occupancy", "missing")
	} else if *raw.Occupancy < 0 || *raw.Occupancy > bnd.OccupancyMax {
		verr.add("occupancy", "%d outside 0-%d", *raw.Occupancy, bnd.OccupancyMax)
	} else {
		rec.Occupancy = *raw.Occupancy
	}

	if raw.BuildingType == nil {
		verr.add("building_type", "missing")
	} else if bt, err := model.ParseBuildingType(*raw.BuildingType); err != nil {
		verr.add("building_type", "%v", err)
	} else {
		rec.BuildingType = bt
	}

	if raw.IsHoliday == nil {
		verr.add("is_holiday", "missing")
	} else if h, err := model.ParseHoliday(raw.IsHoliday); err != nil {
		verr.add("is_holiday", "%v", err)
	} else {
		rec.IsHoliday = h
	}

	if v, ok := checkRange(&verr, "previous_usage", raw.PreviousUsage, 0, bnd.PreviousUsageMax); ok {
		rec.PreviousUsage = v
	}

	if len(verr.Fields) > 0 {
		return model.FeatureRecord{}, &verr
	}
	return rec, nil
}

func checkRange(verr *ValidationError, field string, v *float64, lo, hi float64) (float64, bool) {
	switch {
	case v == nil:
		verr.add(field, "missing")
	case math.IsNaN(*v):
		verr.add(field, "not a number")
	case *v < lo || *v > hi:
		verr.add(field, "%g outside %g-%g", *v, lo, hi)
	default:
		return *v, true
	}
	return 0, false
}

// Classify maps a predicted value to its advisory tier. It is total: NaN and
// negative values fall into TierLow.
func (b *Builder) Classify(score float64) model.AdvisoryTier {
	switch {
	case score > b.cfg.Thresholds.High:
		return model.TierHigh
	case score > b.cfg.Thresholds.Moderate:
		return model.TierModerate
	default:
		return model.TierLow
	}
}

// Predict forwards rec to m and classifies the result. Failures of the model,
// including non-finite output, are returned as *PredictionError.
func (b *Builder) Predict(rec model.FeatureRecord, m prediction.Model) (model.PredictionResult, error) {
	if m == nil {
		return model.PredictionResult{}, &PredictionError{Model: "none", Err: fmt.Errorf("no model available")}
	}
	score, err := m.Predict(rec)
	if err != nil {
		return model.PredictionResult{}, &PredictionError{Model: m.Name(), Err: err}
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return model.PredictionResult{}, &PredictionError{Model: m.Name(), Err: fmt.Errorf("malformed output %v", score)}
	}
	return model.PredictionResult{PredictedKWh: score, Tier: b.Classify(score), Model: m.Name()}, nil
}
