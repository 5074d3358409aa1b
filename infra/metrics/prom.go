package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/Madhumita-crypto/campus-energy-optimizer/core/metrics"
)

// PromSink records prediction events in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	errors      *prometheus.CounterVec
	latency     prometheus.Histogram
	lastKWh     *prometheus.GaugeVec
	model       *prometheus.GaugeVec
}

// NewPromSink registers prediction metrics on the default Prometheus registerer.
// The metrics endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "energy_predictions_total",
		Help: "Total number of successful energy predictions",
	}, []string{"building_type", "tier", "model"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "energy_prediction_errors_total",
		Help: "Total number of rejected or failed prediction requests",
	}, []string{"kind"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "energy_prediction_latency_seconds",
		Help:    "Time spent in the model boundary per prediction",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
	lastKWh := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "energy_predicted_kwh",
		Help: "Most recent predicted usage per building type",
	}, []string{"building_type"})
	modelInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "energy_model_info",
		Help: "Model selected at startup (value 1); fallback label is true when the fallback artifact is in use",
	}, []string{"model", "kind", "fallback"})

	var err error
	if predictions, err = register(reg, predictions); err != nil {
		return nil, err
	}
	if errs, err = register(reg, errs); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}
	if lastKWh, err = register(reg, lastKWh); err != nil {
		return nil, err
	}
	if modelInfo, err = register(reg, modelInfo); err != nil {
		return nil, err
	}
	return &PromSink{predictions: predictions, errors: errs, latency: latency, lastKWh: lastKWh, model: modelInfo}, nil
}

// register reuses an already registered collector of the same description.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPrediction counts the prediction and updates latency and last value.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	if ev.Failed() {
		s.errors.WithLabelValues("prediction").Inc()
		return nil
	}
	bt := ev.Record.BuildingType.String()
	s.predictions.WithLabelValues(bt, ev.Tier.String(), ev.Model).Inc()
	s.latency.Observe(ev.Latency.Seconds())
	s.lastKWh.WithLabelValues(bt).Set(ev.PredictedKWh)
	return nil
}

// RecordValidationFailure counts rejected requests.
func (s *PromSink) RecordValidationFailure(coremetrics.ValidationFailureEvent) error {
	s.errors.WithLabelValues("validation").Inc()
	return nil
}

// RecordModelSelection exposes the selected model as an info gauge.
func (s *PromSink) RecordModelSelection(ev coremetrics.ModelSelectionEvent) error {
	fallback := "false"
	if ev.Fallback {
		fallback = "true"
	}
	s.model.WithLabelValues(ev.Model, ev.Kind, fallback).Set(1)
	return nil
}
