package app

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Madhumita-crypto/campus-energy-optimizer/config"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/factory"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/inference"
)

const linearArtifact = `{
  "name": "campus-lr",
  "kind": "linear",
  "params": {
    "intercept": 10,
    "coefficients": {"occupancy": 0.25, "previous_usage": 0.5},
    "building_type": {"Academic": 2, "Hostel": 4, "Library": 1, "Admin": 0, "Lab": 8}
  }
}`

const body = `{"hour":14,"day_of_week":2,"temperature":31.5,"humidity":60,"occupancy":420,"building_type":"Library","is_holiday":false,"previous_usage":140}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	primary := filepath.Join(dir, "energy_model.json")
	require.NoError(t, os.WriteFile(primary, []byte(linearArtifact), 0o644))
	avg := filepath.Join(dir, "avg.csv")
	require.NoError(t, os.WriteFile(avg, []byte("building_type,hour,avg_kwh\nLab,0,12.5\nLab,1,11\n"), 0o644))

	cfg := &config.Config{}
	cfg.Model.Primary = primary
	cfg.Averages.PrecomputedPath = avg
	cfg.Averages.DatasetPath = filepath.Join(dir, "missing.csv")
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "nop"}}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNew_Predict(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	// 10 + 0.25*420 + 0.5*140 + 1
	assert.Contains(t, rr.Body.String(), `"predicted_kwh":186`)
	assert.Contains(t, rr.Body.String(), `"tier":"High"`)

	info := svc.ModelInfo()
	assert.Equal(t, "campus-lr", info.Name)
	assert.Equal(t, "linear", info.Kind)
	assert.False(t, info.Fallback)
}

func TestNew_Averages(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/averages?building_type=Lab", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"avg_kwh":12.5`)
}

func TestNew_AveragesAbsent(t *testing.T) {
	cfg := testConfig(t)
	cfg.Averages.PrecomputedPath = filepath.Join(t.TempDir(), "none.csv")
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/averages?building_type=Lab", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNew_MissingModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Primary = filepath.Join(t.TempDir(), "absent.json")
	_, err := New(cfg)
	var serr *inference.StartupError
	require.True(t, errors.As(err, &serr), "got %v", err)
}

func TestNew_FallbackModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Fallback = cfg.Model.Primary
	cfg.Model.Primary = filepath.Join(t.TempDir(), "absent.json")
	cfg.Model.AllowFallback = true
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()
	assert.True(t, svc.ModelInfo().Fallback)
}

func TestNew_UnknownSink(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "statsd"}}
	_, err := New(cfg)
	assert.ErrorContains(t, err, "metrics sink")
}

func TestServe_GracefulShutdown(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(url)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(b))

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
