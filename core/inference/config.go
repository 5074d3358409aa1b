package inference

import "fmt"

// Bounds holds the configurable numeric limits of a FeatureRecord. Hour and
// day of week have fixed calendar ranges and are not configurable.
type Bounds struct {
	TemperatureMin   float64 `json:"temperature_min"`
	TemperatureMax   float64 `json:"temperature_max"`
	HumidityMin      float64 `json:"humidity_min"`
	HumidityMax      float64 `json:"humidity_max"`
	OccupancyMax     int     `json:"occupancy_max"`
	PreviousUsageMax float64 `json:"previous_usage_max"`
}

// Thresholds define the advisory tier boundaries. A score above High is
// High, a score above Moderate is Moderate, anything else is Low.
type Thresholds struct {
	Moderate float64 `json:"moderate"`
	High     float64 `json:"high"`
}

// Config groups validation bounds and tier thresholds.
type Config struct {
	Bounds     Bounds     `json:"bounds"`
	Thresholds Thresholds `json:"thresholds"`
}

// DefaultConfig returns the limits used by the campus form.
func DefaultConfig() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills unset limits. Temperature and humidity ranges are only
// defaulted when both ends are zero.
func (c *Config) SetDefaults() {
	b := &c.Bounds
	if b.TemperatureMin == 0 && b.TemperatureMax == 0 {
		b.TemperatureMax = 50
	}
	if b.HumidityMin == 0 && b.HumidityMax == 0 {
		b.HumidityMax = 100
	}
	if b.OccupancyMax == 0 {
		b.OccupancyMax = 2000
	}
	if b.PreviousUsageMax == 0 {
		b.PreviousUsageMax = 5000
	}
	if c.Thresholds.Moderate == 0 && c.Thresholds.High == 0 {
		c.Thresholds = Thresholds{Moderate: 90, High: 150}
	}
}

// Validate checks that every range is well formed.
func (c Config) Validate() error {
	b := c.Bounds
	if b.TemperatureMin > b.TemperatureMax {
		return fmt.Errorf("temperature_min %.2f exceeds temperature_max %.2f", b.TemperatureMin, b.TemperatureMax)
	}
	if b.HumidityMin > b.HumidityMax {
		return fmt.Errorf("humidity_min %.2f exceeds humidity_max %.2f", b.HumidityMin, b.HumidityMax)
	}
	if b.HumidityMin < 0 || b.HumidityMax > 100 {
		return fmt.Errorf("humidity bounds must lie within 0-100")
	}
	if b.OccupancyMax < 0 {
		return fmt.Errorf("occupancy_max must not be negative")
	}
	if b.PreviousUsageMax < 0 {
		return fmt.Errorf("previous_usage_max must not be negative")
	}
	if c.Thresholds.Moderate >= c.Thresholds.High {
		return fmt.Errorf("moderate threshold %.2f must be below high threshold %.2f", c.Thresholds.Moderate, c.Thresholds.High)
	}
	return nil
}
