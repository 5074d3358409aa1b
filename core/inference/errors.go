package inference

import (
	"fmt"
	"strings"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every field that prevented a FeatureRecord from
// being built. The caller is expected to correct the input and resubmit.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// PredictionError wraps a failure of the model boundary.
type PredictionError struct {
	Model string
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed (model %s): %v", e.Model, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// StartupError reports that no model could be made available. A process
// receiving it must not serve predictions.
type StartupError struct {
	Path string
	Err  error
}

func (e *StartupError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("startup: %v", e.Err)
	}
	return fmt.Sprintf("startup: model %s: %v", e.Path, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }
