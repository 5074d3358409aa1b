// Package metrics defines the observability events emitted around each
// prediction and the sink interfaces that record them. Sinks like PromSink
// and InfluxSink live in infra/metrics and are combined with NewMultiSink.
// The factory helpers return a MultiSink automatically when multiple sinks
// are configured.
package metrics
