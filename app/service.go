package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Madhumita-crypto/campus-energy-optimizer/api/predict"
	"github.com/Madhumita-crypto/campus-energy-optimizer/config"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/inference"
	coremetrics "github.com/Madhumita-crypto/campus-energy-optimizer/core/metrics"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/averages"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/logger"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/metrics"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/modelstore"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/mqtt"
	"github.com/Madhumita-crypto/campus-energy-optimizer/internal/eventbus"
)

// Service wires the model, the averages table, metrics and event publishing
// behind the HTTP API.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	builder   *inference.Builder
	selection *modelstore.Selection
	averages  *averages.Table
	sink      coremetrics.MetricsSink
	bus       *eventbus.Bus
	publisher *mqtt.PahoPublisher
	handler   http.Handler
}

// New creates a Service from the configuration. A model that cannot be
// loaded yields a *inference.StartupError.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Configure(cfg.Log); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logg := logger.New("service")

	builder, err := inference.NewBuilder(cfg.Inference)
	if err != nil {
		return nil, err
	}
	sel, err := modelstore.Select(cfg.Model, logger.New("modelstore"))
	if err != nil {
		return nil, err
	}
	table := averages.Load(cfg.Averages, logger.New("averages"))

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var pub *mqtt.PahoPublisher
	if cfg.MQTT.Enabled {
		pub, err = mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			logg.Warnf("mqtt publishing disabled: %v", err)
			pub = nil
		}
	}

	svc := &Service{
		cfg:       cfg,
		log:       logg,
		builder:   builder,
		selection: sel,
		averages:  table,
		sink:      sink,
		bus:       eventbus.New(),
		publisher: pub,
	}
	deps := predict.Deps{
		Builder: builder,
		Model:   sel.Model,
		Info:    svc.ModelInfo(),
		Bus:     svc.bus,
		Logger:  logger.New("api"),
	}
	if table != nil {
		deps.Averages = table
	}
	svc.handler = predict.NewRouter(deps)
	return svc, nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler { return s.handler }

// ModelInfo describes the model chosen at startup.
func (s *Service) ModelInfo() predict.ModelInfo {
	return predict.ModelInfo{
		Name:     s.selection.Model.Name(),
		Kind:     s.selection.Kind,
		Path:     s.selection.Path,
		Fallback: s.selection.Fallback,
		LoadedAt: s.selection.LoadedAt,
	}
}

// Run listens on the configured address and blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the API on ln together with the event consumers. It returns
// once ctx is cancelled and the server has shut down.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	waits := []<-chan struct{}{
		metrics.StartEventCollector(ctx, s.bus, s.sink, logger.New("metrics")),
	}
	if s.publisher != nil {
		waits = append(waits, mqtt.StartForwarder(ctx, s.bus, s.publisher, s.cfg.MQTT.TopicPrefix, logger.New("mqtt_forwarder")))
	}
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.bus.Publish(coremetrics.ModelSelectionEvent{
		Model:    s.selection.Model.Name(),
		Kind:     s.selection.Kind,
		Fallback: s.selection.Fallback,
		Time:     s.selection.LoadedAt,
	})

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("serving API on %s with model %q", ln.Addr(), s.selection.Model.Name())
	err := srv.Serve(ln)
	cancel()
	for _, w := range waits {
		<-w
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
