package prediction

import "github.com/Madhumita-crypto/campus-energy-optimizer/core/model"

// Model predicts energy usage for a single feature record.
type Model interface {
	// Name identifies the model in logs, metrics and API responses.
	Name() string
	// Predict returns the predicted usage in kWh for rec.
	Predict(rec model.FeatureRecord) (float64, error)
}

// Func adapts a plain function to the Model interface.
type Func struct {
	ModelName string
	Fn        func(model.FeatureRecord) (float64, error)
}

func (f Func) Name() string { return f.ModelName }

func (f Func) Predict(rec model.FeatureRecord) (float64, error) { return f.Fn(rec) }
