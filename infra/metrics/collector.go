package metrics

import (
	"context"

	coremetrics "github.com/Madhumita-crypto/campus-energy-optimizer/core/metrics"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/logger"
	"github.com/Madhumita-crypto/campus-energy-optimizer/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed. The returned
// channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Errorf("metrics error: %v", err)
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event) error {
	switch e := ev.(type) {
	case coremetrics.PredictionEvent:
		return sink.RecordPrediction(e)
	case coremetrics.ValidationFailureEvent:
		if r, ok := sink.(coremetrics.ValidationRecorder); ok {
			return r.RecordValidationFailure(e)
		}
	case coremetrics.ModelSelectionEvent:
		if r, ok := sink.(coremetrics.ModelSelectionRecorder); ok {
			return r.RecordModelSelection(e)
		}
	}
	return nil
}
