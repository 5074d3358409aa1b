package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildingType identifies the kind of campus building a record refers to.
type BuildingType string

const (
	BuildingAcademic BuildingType = "Academic"
	BuildingHostel   BuildingType = "Hostel"
	BuildingLibrary  BuildingType = "Library"
	BuildingAdmin    BuildingType = "Admin"
	BuildingLab      BuildingType = "Lab"
)

var buildingTypes = []BuildingType{
	BuildingAcademic,
	BuildingHostel,
	BuildingLibrary,
	BuildingAdmin,
	BuildingLab,
}

// BuildingTypes returns the closed set of supported building types in
// declaration order.
func BuildingTypes() []BuildingType {
	out := make([]BuildingType, len(buildingTypes))
	copy(out, buildingTypes)
	return out
}

// ParseBuildingType matches s exactly against the supported names after
// trimming surrounding whitespace.
func ParseBuildingType(s string) (BuildingType, error) {
	s = strings.TrimSpace(s)
	for _, bt := range buildingTypes {
		if string(bt) == s {
			return bt, nil
		}
	}
	return "", fmt.Errorf("unknown building type %q", s)
}

func (b BuildingType) String() string { return string(b) }

// FeatureRecord is the validated input of a single prediction request.
type FeatureRecord struct {
	Hour          int          `json:"hour"`
	DayOfWeek     int          `json:"day_of_week"`
	Temperature   float64      `json:"temperature"`
	Humidity      float64      `json:"humidity"`
	Occupancy     int          `json:"occupancy"`
	BuildingType  BuildingType `json:"building_type"`
	IsHoliday     bool         `json:"is_holiday"`
	PreviousUsage float64      `json:"previous_usage"`
}

// RawInputs carries form values before validation. A nil field means the
// value was not supplied. IsHoliday keeps whatever the client sent (JSON
// bool, number or string) so that an unusable value is reported by
// validation rather than by decoding.
type RawInputs struct {
	Hour          *int     `json:"hour"`
	DayOfWeek     *int     `json:"day_of_week"`
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity"`
	Occupancy     *int     `json:"occupancy"`
	BuildingType  *string  `json:"building_type"`
	IsHoliday     any      `json:"is_holiday"`
	PreviousUsage *float64 `json:"previous_usage"`
}

// ParseHoliday normalizes a holiday flag. It accepts booleans, the numbers 0
// and 1, and the strings true/false, yes/no and 1/0 in any case.
func ParseHoliday(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case float64:
		return numericFlag(x)
	case int:
		return numericFlag(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return false, fmt.Errorf("invalid flag %q", x.String())
		}
		return numericFlag(f)
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, fmt.Errorf("invalid flag %q", x)
	default:
		return false, fmt.Errorf("invalid flag %v", v)
	}
}

func numericFlag(f float64) (bool, error) {
	switch f {
	case 1:
		return true, nil
	case 0:
		return false, nil
	}
	return false, fmt.Errorf("invalid flag %v, want 0 or 1", f)
}
