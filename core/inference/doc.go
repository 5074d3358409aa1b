// Package inference turns raw form inputs into a validated FeatureRecord,
// forwards it to an injected model boundary and classifies the predicted
// value into an advisory tier.
//
// Build, Classify and Predict hold no state between calls. Validation errors
// never reach the model; model failures are wrapped and returned as-is,
// without retries or default values.
package inference
