package prediction

import (
	"errors"
	"testing"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
)

func TestMockModel_Predict(t *testing.T) {
	m := &MockModel{Value: 42, PerBuilding: map[model.BuildingType]float64{model.BuildingLab: 7}}
	if v, err := m.Predict(model.FeatureRecord{BuildingType: model.BuildingAcademic}); err != nil || v != 42 {
		t.Fatalf("expected default value, got %v %v", v, err)
	}
	if v, _ := m.Predict(model.FeatureRecord{BuildingType: model.BuildingLab}); v != 7 {
		t.Fatalf("expected override 7 got %v", v)
	}
	if m.Calls() != 2 {
		t.Fatalf("expected 2 calls got %d", m.Calls())
	}
}

func TestMockModel_Error(t *testing.T) {
	boom := errors.New("boom")
	m := &MockModel{Err: boom}
	if _, err := m.Predict(model.FeatureRecord{}); !errors.Is(err, boom) {
		t.Fatalf("expected configured error, got %v", err)
	}
}

func TestFunc(t *testing.T) {
	f := Func{ModelName: "f", Fn: func(r model.FeatureRecord) (float64, error) { return float64(r.Hour), nil }}
	if f.Name() != "f" {
		t.Fatalf("unexpected name %s", f.Name())
	}
	if v, _ := f.Predict(model.FeatureRecord{Hour: 5}); v != 5 {
		t.Fatalf("expected 5 got %v", v)
	}
}
