package modelstore

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/factory"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
)

// LinearParams is the artifact payload of a linear regression model. The
// building type is one-hot encoded with the first category dropped: its
// contribution is looked up in BuildingType and an absent type is the
// zero baseline.
type LinearParams struct {
	Name         string             `json:"name"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	BuildingType map[string]float64 `json:"building_type"`
}

// LinearModel predicts intercept + w·x + b[building_type], with b = 0 for
// the baseline building type.
type LinearModel struct {
	name      string
	intercept float64
	weights   *mat.VecDense
	building  map[model.BuildingType]float64
}

// NewLinearModel validates p and builds the weight vector.
func NewLinearModel(p LinearParams) (*LinearModel, error) {
	w := make([]float64, len(numericFeatures))
	for name, v := range p.Coefficients {
		if !isNumericFeature(name) {
			return nil, fmt.Errorf("unknown coefficient %q", name)
		}
		for i, f := range numericFeatures {
			if f == name {
				w[i] = v
			}
		}
	}
	building := make(map[model.BuildingType]float64, len(p.BuildingType))
	for name, v := range p.BuildingType {
		bt, err := model.ParseBuildingType(name)
		if err != nil {
			return nil, fmt.Errorf("building_type coefficients: %w", err)
		}
		building[bt] = v
	}
	if p.Name == "" {
		p.Name = "linear"
	}
	return &LinearModel{name: p.Name, intercept: p.Intercept, weights: mat.NewVecDense(len(w), w), building: building}, nil
}

func newLinearFromConf(conf map[string]any) (*LinearModel, error) {
	var p LinearParams
	if err := factory.Decode(conf, &p); err != nil {
		return nil, err
	}
	return NewLinearModel(p)
}

// Name returns the artifact name.
func (m *LinearModel) Name() string { return m.name }

// Predict evaluates the regression.
func (m *LinearModel) Predict(rec model.FeatureRecord) (float64, error) {
	b := m.building[rec.BuildingType]
	x := mat.NewVecDense(len(numericFeatures), featureVector(rec))
	return m.intercept + mat.Dot(m.weights, x) + b, nil
}
