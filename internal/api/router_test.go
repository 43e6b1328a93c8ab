package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crop_service/internal/core"
	"crop_service/internal/domain/model"
	"crop_service/internal/infrastructure/weather"
)

type stubSoil struct{}

func (stubSoil) GetSoil(_ context.Context, region string) (model.SoilSample, error) {
	return model.SoilSample{Region: region, SoilType: "Loam", BaseSoilType: "Loam", N: 60, P: 35, K: 45, PH: 6.8}, nil
}

type stubWeather struct{ err error }

func (s stubWeather) GetWeather(context.Context, string) (model.WeatherSample, error) {
	return model.WeatherSample{
		CurrentTemperature:       29,
		WeeklyAvgTemperature:     28,
		WeeklyMaxTemperature:     31,
		WeeklyMinTemperature:     25,
		WeeklyAvgHumidity:        70,
		EstimatedMonthlyRainfall: 150,
	}, s.err
}

type stubClassifier struct {
	out model.ClassifierOutput
	err error
}

func (s stubClassifier) PredictProba(context.Context, model.FeatureVector) (model.ClassifierOutput, error) {
	return s.out, s.err
}

var threeCrops = model.ClassifierOutput{
	{Crop: model.Rice, Probability: 0.6},
	{Crop: model.Wheat, Probability: 0.3},
	{Crop: model.Maize, Probability: 0.1},
}

func newTestServer(t *testing.T, w model.WeatherProvider, c model.Classifier) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := model.NewCropCatalog(model.DefaultCropProfiles())
	sources := core.SeededSources{Seed: 42}
	june := func() time.Time { return time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC) }
	rules := core.NewRuleEngine(core.DefaultClimateZones(), june)

	svc := core.NewRecommendationService(core.ServiceDeps{
		Soil:        stubSoil{},
		Weather:     w,
		Classifier:  c,
		Recommender: core.NewRecommender(catalog, rules, sources, core.RecommenderConfig{Simulations: 500}),
		Catalog:     catalog,
		Sources:     sources,
		Logger:      logger,
	})
	return NewRouter(NewHandler(svc, true, logger), 5*time.Second)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return rec, envelope
}

func errorCode(t *testing.T, envelope map[string]json.RawMessage) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(envelope["error"], &body))
	assert.NotEmpty(t, body.RequestID)
	return body.Code
}

func TestStatusAndHealth(t *testing.T) {
	h := newTestServer(t, stubWeather{}, stubClassifier{out: threeCrops})

	rec, envelope := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var status map[string]any
	require.NoError(t, json.Unmarshal(envelope["data"], &status))
	assert.Equal(t, "Backend running", status["status"])
	assert.Equal(t, true, status["weather_api_loaded"])

	rec, _ = do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListCrops(t *testing.T) {
	h := newTestServer(t, stubWeather{}, stubClassifier{out: threeCrops})

	rec, envelope := do(t, h, http.MethodGet, "/api/v1/crops", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var profiles []model.CropProfile
	require.NoError(t, json.Unmarshal(envelope["data"], &profiles))
	assert.Len(t, profiles, len(model.DefaultCropProfiles()))
}

func TestRecommendEndpoint(t *testing.T) {
	h := newTestServer(t, stubWeather{}, stubClassifier{out: threeCrops})

	rec, envelope := do(t, h, http.MethodPost, "/api/v1/recommendations", `{"region": "Chennai"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report core.RecommendationReport
	require.NoError(t, json.Unmarshal(envelope["data"], &report))
	assert.Equal(t, "chennai", report.Recommendation.Region)
	assert.Equal(t, model.Tropical, report.Recommendation.ClimateZone)
	require.Len(t, report.Recommendation.Ranked, 3)
	assert.Equal(t, model.Rice, report.Recommendation.Top3[0].Crop)
	assert.Equal(t, model.Wheat, report.Recommendation.Worst.Crop)
	assert.Equal(t, core.AgronomicNote, report.AgronomicNote)
}

func TestRecommendEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		weather    model.WeatherProvider
		classifier model.Classifier
		body       string
		status     int
		code       string
	}{
		{"malformed body", stubWeather{}, stubClassifier{out: threeCrops}, `{"region":`, http.StatusBadRequest, "invalid_json"},
		{"missing region", stubWeather{}, stubClassifier{out: threeCrops}, `{"region": " "}`, http.StatusBadRequest, "invalid_request"},
		{"empty classifier output", stubWeather{}, stubClassifier{}, `{"region": "chennai"}`, http.StatusBadGateway, "empty_score_set"},
		{"duplicate classes", stubWeather{}, stubClassifier{out: model.ClassifierOutput{{Crop: model.Rice, Probability: 0.5}, {Crop: model.Rice, Probability: 0.5}}},
			`{"region": "chennai"}`, http.StatusBadGateway, "invalid_classifier_output"},
		{"weather key missing", stubWeather{err: weather.ErrAPIKeyMissing}, stubClassifier{out: threeCrops}, `{"region": "chennai"}`, http.StatusServiceUnavailable, "weather_unavailable"},
		{"classifier down", stubWeather{}, stubClassifier{err: errors.New("connection refused")}, `{"region": "chennai"}`, http.StatusInternalServerError, "internal_error"},
		{"classifier timeout", stubWeather{}, stubClassifier{err: context.DeadlineExceeded}, `{"region": "chennai"}`, http.StatusGatewayTimeout, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, tt.weather, tt.classifier)
			rec, envelope := do(t, h, http.MethodPost, "/api/v1/recommendations", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, envelope))
		})
	}
}

func TestRiskAnalysisEndpoint(t *testing.T) {
	h := newTestServer(t, stubWeather{}, stubClassifier{out: threeCrops})

	rec, envelope := do(t, h, http.MethodPost, "/api/v1/risk-analysis", `{"region": "chennai", "crop": "Wheat"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RiskAnalysisResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &resp))
	assert.Equal(t, WeatherSummary{Temperature: 28, Humidity: 70, Rainfall: 150}, resp.Weather)
	assert.Equal(t, model.Wheat, resp.SelectedCrop.Crop)
	assert.Equal(t, core.SelectionCritical, resp.SelectedCrop.RiskLevel)
	assert.Equal(t, CropConfidence{Crop: model.Rice, ConfidencePercent: 95}, resp.ModelRecommendation)
	assert.Len(t, resp.Top3, 3)
	assert.Equal(t, CropConfidence{Crop: model.Wheat, ConfidencePercent: 5}, resp.Worst)
	assert.Equal(t, core.EngineName, resp.Engine)

	rec, envelope = do(t, h, http.MethodPost, "/api/v1/risk-analysis", `{"region": "chennai"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", errorCode(t, envelope))

	rec, envelope = do(t, h, http.MethodPost, "/api/v1/risk-analysis", `{"region": "chennai", "crop": "<script>"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", errorCode(t, envelope))
}

func TestSimulateEndpoint(t *testing.T) {
	h := newTestServer(t, stubWeather{}, stubClassifier{out: threeCrops})

	rec, envelope := do(t, h, http.MethodPost, "/api/v1/simulations",
		`{"crop": "rice", "rainfall_mm": 200, "temperature_c": 28, "simulations": 3000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.ViabilityResult
	require.NoError(t, json.Unmarshal(envelope["data"], &result))
	assert.Equal(t, model.Rice, result.Crop)
	assert.Equal(t, 3000, result.Simulations)
	assert.GreaterOrEqual(t, result.Probability, 0.70)
	assert.Equal(t, model.RiskLow, result.RiskLevel)

	rec, envelope = do(t, h, http.MethodPost, "/api/v1/simulations", `{"crop": "rice", "rainfall_mm": 200, "simulations": 1000000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", errorCode(t, envelope))

	rec, envelope = do(t, h, http.MethodPost, "/api/v1/simulations", `{"crop": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", errorCode(t, envelope))
}
