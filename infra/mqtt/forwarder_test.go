package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/Madhumita-crypto/campus-energy-optimizer/core/metrics"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
	"github.com/Madhumita-crypto/campus-energy-optimizer/internal/eventbus"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	bodies [][]byte
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	r.bodies = append(r.bodies, payload)
	return r.err
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.topics)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "campus/energy/Library", Topic("campus/energy", "Library"))
	assert.Equal(t, "campus/energy/Lab", Topic("campus/energy/", "Lab"))
}

func TestStartForwarder_PublishesPredictions(t *testing.T) {
	bus := eventbus.New()
	pub := &recordingPublisher{}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartForwarder(ctx, bus, pub, "campus/energy", nil)

	bus.Publish(coremetrics.ValidationFailureEvent{RequestID: "v"})
	bus.Publish(coremetrics.PredictionEvent{RequestID: "failed", Err: "boom"})
	bus.Publish(coremetrics.PredictionEvent{
		RequestID:    "r1",
		Time:         time.UnixMilli(1700000000000),
		Record:       model.FeatureRecord{Hour: 14, DayOfWeek: 2, Occupancy: 420, BuildingType: model.BuildingLibrary},
		PredictedKWh: 155,
		Tier:         model.TierHigh,
		Model:        "forest-v1",
	})

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, "campus/energy/Library", pub.topics[0])
	var msg PredictionMessage
	require.NoError(t, json.Unmarshal(pub.bodies[0], &msg))
	assert.Equal(t, "r1", msg.RequestID)
	assert.Equal(t, int64(1700000000000), msg.Timestamp)
	assert.Equal(t, "High", msg.Tier)
	assert.Equal(t, 155.0, msg.PredictedKWh)
	assert.Equal(t, 420, msg.Occupancy)
}

func TestStartForwarder_PublishErrorDoesNotStop(t *testing.T) {
	bus := eventbus.New()
	pub := &recordingPublisher{err: errors.New("offline")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := StartForwarder(ctx, bus, pub, "p", nil)

	ev := coremetrics.PredictionEvent{RequestID: "a", Record: model.FeatureRecord{BuildingType: model.BuildingLab}}
	bus.Publish(ev)
	bus.Publish(ev)
	require.Eventually(t, func() bool { return pub.count() == 2 }, time.Second, 5*time.Millisecond)

	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not exit after bus close")
	}
}

func TestStartForwarder_NilPublisher(t *testing.T) {
	done := StartForwarder(context.Background(), eventbus.New(), nil, "p", nil)
	_, open := <-done
	assert.False(t, open)
}
