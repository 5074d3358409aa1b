package metrics

import (
	"fmt"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/factory"
)

// sinkRegistry holds the prediction metrics backends (prometheus, influx)
// selectable from the metrics.sinks configuration list.
var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a prediction metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewMetricsSink builds the sink receiving prediction, validation and model
// selection events. No configuration yields a NopSink; several are fanned out
// through a MultiSink. When one sink fails to build, those already created
// are closed before the error is returned.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	sinks := make([]MetricsSink, 0, len(cfgs))
	for _, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			NewMultiSink(sinks...).Close()
			return nil, fmt.Errorf("metrics sink %q: %w", c.Type, err)
		}
		sinks = append(sinks, s)
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return NewMultiSink(sinks...), nil
}
