package metrics

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	coremetrics "github.com/Madhumita-crypto/campus-energy-optimizer/core/metrics"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
)

const (
	itOrg    = "campus"
	itBucket = "energy"
	itToken  = "it-token"
)

func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "admin",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "admin-password",
			"DOCKER_INFLUXDB_INIT_ORG":         itOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      itBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": itToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("container start: %v", err)
	}
	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, "8086")
	require.NoError(t, err)
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestInfluxSinkWithContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()
	cont, url := startInflux(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	sink, ok := NewInfluxSinkWithFallback(url, itToken, itOrg, itBucket).(*InfluxSink)
	require.True(t, ok, "health check should pass against a live instance")
	defer sink.Close()

	require.NoError(t, sink.RecordPrediction(coremetrics.PredictionEvent{
		RequestID:    "it-1",
		Time:         time.Now(),
		Record:       model.FeatureRecord{Hour: 9, BuildingType: model.BuildingLab},
		PredictedKWh: 97.25,
		Tier:         model.TierModerate,
		Model:        "campus-rf",
		Latency:      2 * time.Millisecond,
	}))

	query := fmt.Sprintf(`from(bucket:%q) |> range(start: -1h) |> filter(fn: (r) => r._measurement == "energy_prediction" and r._field == "predicted_kwh")`, itBucket)
	res, err := sink.client.QueryAPI(itOrg).Query(ctx, query)
	require.NoError(t, err)
	defer res.Close()
	require.True(t, res.Next(), "no rows: %v", res.Err())
	assert.Equal(t, 97.25, res.Record().Value())
	assert.Equal(t, "Lab", res.Record().ValueByKey("building_type"))
}
