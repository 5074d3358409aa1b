package model

import "fmt"

// AdvisoryTier buckets a predicted usage value for user-facing guidance.
type AdvisoryTier int

const (
	TierLow AdvisoryTier = iota
	TierModerate
	TierHigh
)

// String returns a human-readable representation of the tier.
func (t AdvisoryTier) String() string {
	switch t {
	case TierLow:
		return "Low"
	case TierModerate:
		return "Moderate"
	case TierHigh:
		return "High"
	default:
		return "unknown"
	}
}

// Advice returns the guidance text shown next to the prediction.
func (t AdvisoryTier) Advice() string {
	switch t {
	case TierHigh:
		return "High usage detected — consider rescheduling heavy equipment, lowering HVAC setpoints, or limiting non-essential lighting."
	case TierModerate:
		return "Moderate usage — consider small optimizations such as consolidating lab schedules or dimming common-area lights."
	default:
		return "Low usage — looks efficient for these inputs."
	}
}

// MarshalText encodes the tier by name.
func (t AdvisoryTier) MarshalText() ([]byte, error) {
	if t < TierLow || t > TierHigh {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name.
func (t *AdvisoryTier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Low":
		*t = TierLow
	case "Moderate":
		*t = TierModerate
	case "High":
		*t = TierHigh
	default:
		return fmt.Errorf("unknown tier %q", b)
	}
	return nil
}

// PredictionResult is the outcome of a prediction. It is derived per request
// and never stored.
type PredictionResult struct {
	PredictedKWh float64      `json:"predicted_kwh"`
	Tier         AdvisoryTier `json:"tier"`
	Model        string       `json:"model,omitempty"`
}

// HourlyAverage is one row of the historical averages table.
type HourlyAverage struct {
	BuildingType BuildingType `json:"building_type"`
	Hour         int          `json:"hour"`
	AvgKWh       float64      `json:"avg_kwh"`
}
