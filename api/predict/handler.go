// Package predict exposes the prediction pipeline over HTTP.
package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/inference"
	coremetrics "github.com/Madhumita-crypto/campus-energy-optimizer/core/metrics"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/prediction"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/logger"
	"github.com/Madhumita-crypto/campus-energy-optimizer/internal/eventbus"
	"github.com/Madhumita-crypto/campus-energy-optimizer/pkg/export"
)

const maxBodyBytes = 1 << 20

// AveragesSource is the read-only historical averages table.
type AveragesSource interface {
	BuildingTypes() []model.BuildingType
	ForBuilding(bt model.BuildingType) ([]model.HourlyAverage, bool)
}

// ModelInfo describes the model serving requests.
type ModelInfo struct {
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	Path     string    `json:"path"`
	Fallback bool      `json:"fallback"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Deps groups what the handlers need. Averages and Bus may be nil.
type Deps struct {
	Builder  *inference.Builder
	Model    prediction.Model
	Info     ModelInfo
	Averages AveragesSource
	Bus      eventbus.EventBus
	Logger   logger.Logger
}

// Result is the body returned by a successful prediction.
type Result struct {
	PredictedKWh float64            `json:"predicted_kwh"`
	Tier         model.AdvisoryTier `json:"tier"`
	Advice       string             `json:"advice"`
	Model        string             `json:"model"`
}

// Response is the body of POST /api/predict.
type Response struct {
	RequestID string              `json:"request_id"`
	Record    model.FeatureRecord `json:"record"`
	Result    Result              `json:"result"`
}

type errorBody struct {
	RequestID string                 `json:"request_id,omitempty"`
	Error     string                 `json:"error"`
	Fields    []inference.FieldError `json:"fields,omitempty"`
}

// NewRouter registers every endpoint on a new ServeMux wrapped with request IDs.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/predict", NewPredictHandler(d))
	mux.Handle("POST /api/predict/report", NewReportHandler(d))
	mux.Handle("GET /api/averages", NewAveragesHandler(d.Averages))
	mux.Handle("GET /api/model", NewModelHandler(d.Info))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return WithRequestID(mux)
}

// NewPredictHandler returns the handler for POST /api/predict.
func NewPredictHandler(d Deps) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, res, ok := d.run(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, Response{
			RequestID: RequestID(r.Context()),
			Record:    rec,
			Result: Result{
				PredictedKWh: res.PredictedKWh,
				Tier:         res.Tier,
				Advice:       res.Tier.Advice(),
				Model:        res.Model,
			},
		})
	})
}

// NewReportHandler returns the handler for POST /api/predict/report. The body
// is the CSV flattening of the record and its prediction.
func NewReportHandler(d Deps) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, res, ok := d.run(w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="energy_prediction_report.csv"`)
		if err := export.WriteCSV(w, rec, res.PredictedKWh); err != nil {
			logger.OrNop(d.Logger).Errorf("write report: %v", err)
		}
	})
}

// run decodes, validates and predicts. When it returns false the error
// response has already been written.
func (d Deps) run(w http.ResponseWriter, r *http.Request) (model.FeatureRecord, model.PredictionResult, bool) {
	log := logger.OrNop(d.Logger)
	reqID := RequestID(r.Context())

	var raw model.RawInputs
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{RequestID: reqID, Error: fmt.Sprintf("malformed request: %v", err)})
		return model.FeatureRecord{}, model.PredictionResult{}, false
	}

	rec, err := d.Builder.Build(raw)
	if err != nil {
		var verr *inference.ValidationError
		if !errors.As(err, &verr) {
			writeJSON(w, http.StatusInternalServerError, errorBody{RequestID: reqID, Error: err.Error()})
			return model.FeatureRecord{}, model.PredictionResult{}, false
		}
		d.publish(coremetrics.ValidationFailureEvent{RequestID: reqID, Fields: fieldNames(verr), Time: time.Now()})
		log.Debugw("request rejected", map[string]any{"request_id": reqID, "error": verr.Error()})
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{RequestID: reqID, Error: verr.Error(), Fields: verr.Fields})
		return model.FeatureRecord{}, model.PredictionResult{}, false
	}

	start := time.Now()
	res, err := d.Builder.Predict(rec, d.Model)
	ev := coremetrics.PredictionEvent{
		RequestID:    reqID,
		Time:         start,
		Record:       rec,
		PredictedKWh: res.PredictedKWh,
		Tier:         res.Tier,
		Model:        res.Model,
		Latency:      time.Since(start),
	}
	if err != nil {
		ev.Err = err.Error()
		if d.Model != nil {
			ev.Model = d.Model.Name()
		}
		d.publish(ev)
		log.Errorf("request %s: %v", reqID, err)
		writeJSON(w, http.StatusBadGateway, errorBody{RequestID: reqID, Error: err.Error()})
		return model.FeatureRecord{}, model.PredictionResult{}, false
	}
	d.publish(ev)
	if res.PredictedKWh < 0 {
		log.Warnf("request %s: model %s returned negative usage %.3f kWh", reqID, res.Model, res.PredictedKWh)
	}
	return rec, res, true
}

func (d Deps) publish(ev eventbus.Event) {
	if d.Bus != nil {
		d.Bus.Publish(ev)
	}
}

func fieldNames(verr *inference.ValidationError) []string {
	out := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		out[i] = f.Field
	}
	return out
}

// NewAveragesHandler returns the handler for GET /api/averages. Without a
// building_type parameter it lists the building types present.
func NewAveragesHandler(src AveragesSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := RequestID(r.Context())
		if src == nil {
			writeJSON(w, http.StatusNotFound, errorBody{RequestID: reqID, Error: "historical averages are not available on this server"})
			return
		}
		q := r.URL.Query().Get("building_type")
		if q == "" {
			writeJSON(w, http.StatusOK, map[string]any{"building_types": src.BuildingTypes()})
			return
		}
		bt, err := model.ParseBuildingType(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{RequestID: reqID, Error: err.Error()})
			return
		}
		rows, ok := src.ForBuilding(bt)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody{RequestID: reqID, Error: fmt.Sprintf("no averages for %s", bt)})
			return
		}
		writeJSON(w, http.StatusOK, rows)
	})
}

// NewModelHandler returns the handler for GET /api/model.
func NewModelHandler(info ModelInfo) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, info)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
