package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	coremetrics "github.com/Madhumita-crypto/campus-energy-optimizer/core/metrics"
	coremqtt "github.com/Madhumita-crypto/campus-energy-optimizer/core/mqtt"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/logger"
	"github.com/Madhumita-crypto/campus-energy-optimizer/internal/eventbus"
)

// PredictionMessage is the JSON payload published for each prediction.
type PredictionMessage struct {
	RequestID    string  `json:"request_id"`
	Timestamp    int64   `json:"timestamp"`
	BuildingType string  `json:"building_type"`
	Hour         int     `json:"hour"`
	DayOfWeek    int     `json:"day_of_week"`
	Occupancy    int     `json:"occupancy"`
	PredictedKWh float64 `json:"predicted_kwh"`
	Tier         string  `json:"tier"`
	Model        string  `json:"model"`
}

// Topic returns the topic a prediction for buildingType is published on.
func Topic(prefix, buildingType string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + buildingType
}

// StartForwarder publishes successful prediction events from the bus to
// prefix/<building type>. Failed predictions and other events are skipped.
// The returned channel is closed once the forwarder has exited.
func StartForwarder(ctx context.Context, bus eventbus.EventBus, pub coremqtt.Publisher, prefix string, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || pub == nil {
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
				pe, ok := ev.(coremetrics.PredictionEvent)
				if !ok || pe.Failed() {
					continue
				}
				if err := forward(ctx, pub, prefix, pe); err != nil {
					log.Errorf("forward prediction %s: %v", pe.RequestID, err)
				}
			}
		}
	}()
	return done
}

func forward(ctx context.Context, pub coremqtt.Publisher, prefix string, ev coremetrics.PredictionEvent) error {
	msg := PredictionMessage{
		RequestID:    ev.RequestID,
		Timestamp:    ev.Time.UnixMilli(),
		BuildingType: ev.Record.BuildingType.String(),
		Hour:         ev.Record.Hour,
		DayOfWeek:    ev.Record.DayOfWeek,
		Occupancy:    ev.Record.Occupancy,
		PredictedKWh: ev.PredictedKWh,
		Tier:         ev.Tier.String(),
		Model:        ev.Model,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return pub.Publish(pctx, Topic(prefix, msg.BuildingType), payload)
}
