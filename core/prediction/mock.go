package prediction

import (
	"sync/atomic"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
)

// MockModel returns a fixed value or error and counts invocations.
type MockModel struct {
	Value float64
	Err   error
	// PerBuilding overrides Value for specific building types.
	PerBuilding map[model.BuildingType]float64

	calls atomic.Int64
}

// Name returns "mock".
func (m *MockModel) Name() string { return "mock" }

// Predict returns the configured value for the record's building type, the
// default value, or the configured error.
func (m *MockModel) Predict(rec model.FeatureRecord) (float64, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return 0, m.Err
	}
	if v, ok := m.PerBuilding[rec.BuildingType]; ok {
		return v, nil
	}
	return m.Value, nil
}

// Calls reports how many times Predict was invoked.
func (m *MockModel) Calls() int { return int(m.calls.Load()) }
