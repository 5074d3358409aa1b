package metrics

import (
	"time"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
)

// PredictionEvent describes one prediction attempt that passed validation.
// Err is non-empty when the model boundary failed.
type PredictionEvent struct {
	RequestID    string              `json:"request_id"`
	Time         time.Time           `json:"time"`
	Record       model.FeatureRecord `json:"record"`
	PredictedKWh float64             `json:"predicted_kwh"`
	Tier         model.AdvisoryTier  `json:"tier"`
	Model        string              `json:"model"`
	Err          string              `json:"error,omitempty"`
	Latency      time.Duration       `json:"latency_ns"`
}

// Failed reports whether the model boundary returned an error.
func (e PredictionEvent) Failed() bool { return e.Err != "" }

// MetricsSink records prediction events for observability purposes.
type MetricsSink interface {
	RecordPrediction(ev PredictionEvent) error
}

// ValidationFailureEvent captures a rejected request.
type ValidationFailureEvent struct {
	RequestID string
	Fields    []string
	Time      time.Time
}

// ValidationRecorder records rejected requests.
type ValidationRecorder interface {
	RecordValidationFailure(ev ValidationFailureEvent) error
}

// ModelSelectionEvent records which artifact was loaded at startup.
type ModelSelectionEvent struct {
	Model    string
	Kind     string
	Fallback bool
	Time     time.Time
}

// ModelSelectionRecorder records startup model selection.
type ModelSelectionRecorder interface {
	RecordModelSelection(ev ModelSelectionEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionEvent) error               { return nil }
func (NopSink) RecordValidationFailure(ValidationFailureEvent) error { return nil }
func (NopSink) RecordModelSelection(ModelSelectionEvent) error       { return nil }
