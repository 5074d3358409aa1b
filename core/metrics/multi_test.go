package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordPrediction(PredictionEvent) error {
	r.count++
	return r.err
}

func (r *recordSink) RecordValidationFailure(ValidationFailureEvent) error {
	r.count++
	return nil
}

// predictionOnly does not implement the optional recorders.
type predictionOnly struct{ count int }

func (p *predictionOnly) RecordPrediction(PredictionEvent) error {
	p.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	p := &predictionOnly{}
	m := NewMultiSink(s1, s2, p)
	if err := m.RecordPrediction(PredictionEvent{}); err != nil {
		t.Fatalf("record prediction: %v", err)
	}
	if err := m.RecordValidationFailure(ValidationFailureEvent{}); err != nil {
		t.Fatalf("record validation: %v", err)
	}
	if err := m.RecordModelSelection(ModelSelectionEvent{}); err != nil {
		t.Fatalf("record selection: %v", err)
	}
	if s1.count != 2 || s2.count != 2 || p.count != 1 {
		t.Fatalf("events not forwarded: %d %d %d", s1.count, s2.count, p.count)
	}
}

func TestMultiSink_ContinuesAfterError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	err := NewMultiSink(s1, s2).RecordPrediction(PredictionEvent{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if s2.count != 1 {
		t.Fatalf("second sink skipped")
	}
}

func TestNewMetricsSink_Empty(t *testing.T) {
	s, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}
}
