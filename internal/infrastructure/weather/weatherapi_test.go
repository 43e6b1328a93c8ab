package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crop_service/internal/domain/model"
)

const forecastBody = `{
  "current": {"temp_c": 29.4, "humidity": 74, "precip_mm": 0.3},
  "forecast": {"forecastday": [
    {"day": {"maxtemp_c": 32, "mintemp_c": 25, "avgtemp_c": 28, "avghumidity": 70, "totalprecip_mm": 2}},
    {"day": {"maxtemp_c": 33, "mintemp_c": 26, "avgtemp_c": 29, "avghumidity": 72, "totalprecip_mm": 2}},
    {"day": {"maxtemp_c": 31, "mintemp_c": 24, "avgtemp_c": 27, "avghumidity": 68, "totalprecip_mm": 2}},
    {"day": {"maxtemp_c": 32, "mintemp_c": 25, "avgtemp_c": 28, "avghumidity": 70, "totalprecip_mm": 2}},
    {"day": {"maxtemp_c": 32, "mintemp_c": 25, "avgtemp_c": 28, "avghumidity": 70, "totalprecip_mm": 2}},
    {"day": {"maxtemp_c": 34, "mintemp_c": 26, "avgtemp_c": 29, "avghumidity": 71, "totalprecip_mm": 2}},
    {"day": {"maxtemp_c": 30, "mintemp_c": 23, "avgtemp_c": 27, "avghumidity": 69, "totalprecip_mm": 2}}
  ]}
}`

type fakeLocator struct {
	loc model.Location
	err error
}

func (f fakeLocator) Locate(context.Context, string) (model.Location, error) {
	return f.loc, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newForecastServer(t *testing.T, status int, body string, query *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		if query != nil {
			*query = r.URL.Query().Get("q")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetWeather(t *testing.T) {
	var q string
	srv := newForecastServer(t, http.StatusOK, forecastBody, &q)
	client := NewClient(srv.URL, "test-key", time.Second, nil, discardLogger())

	got, err := client.GetWeather(context.Background(), "Chennai")
	require.NoError(t, err)

	assert.Equal(t, "chennai,IN", q)
	assert.Equal(t, model.WeatherSample{
		CurrentTemperature:       29.4,
		WeeklyAvgTemperature:     28,
		WeeklyMaxTemperature:     34,
		WeeklyMinTemperature:     23,
		WeeklyAvgHumidity:        70,
		EstimatedMonthlyRainfall: 84,
	}, got)
}

func TestGetWeatherUsesLocatorCoordinates(t *testing.T) {
	var q string
	srv := newForecastServer(t, http.StatusOK, forecastBody, &q)
	locator := fakeLocator{loc: model.Location{Region: "chennai", Lat: 13.0827, Lon: 80.2707}}

	_, err := NewClient(srv.URL, "test-key", time.Second, locator, discardLogger()).GetWeather(context.Background(), "chennai")
	require.NoError(t, err)
	assert.Equal(t, "13.0827,80.2707", q)

	failing := fakeLocator{err: errors.New("overpass unavailable")}
	_, err = NewClient(srv.URL, "test-key", time.Second, failing, discardLogger()).GetWeather(context.Background(), "delhi")
	require.NoError(t, err)
	assert.Equal(t, "delhi,IN", q)
}

func TestGetWeatherWithoutForecastDays(t *testing.T) {
	srv := newForecastServer(t, http.StatusOK, `{"current": {"temp_c": 31, "humidity": 40, "precip_mm": 1}}`, nil)

	got, err := NewClient(srv.URL, "test-key", time.Second, nil, discardLogger()).GetWeather(context.Background(), "delhi")
	require.NoError(t, err)

	assert.Equal(t, 31.0, got.WeeklyAvgTemperature)
	assert.Equal(t, 31.0, got.WeeklyMaxTemperature)
	assert.Equal(t, 31.0, got.WeeklyMinTemperature)
	assert.Equal(t, 40.0, got.WeeklyAvgHumidity)
	// 7mm a week -> 30mm a month, blended with the 60mm baseline
	assert.Equal(t, 42.0, got.EstimatedMonthlyRainfall)
}

func TestGetWeatherErrors(t *testing.T) {
	_, err := NewClient("", "", time.Second, nil, discardLogger()).GetWeather(context.Background(), "chennai")
	assert.ErrorIs(t, err, ErrAPIKeyMissing)

	_, err = NewClient("", "test-key", time.Second, nil, discardLogger()).GetWeather(context.Background(), " ")
	assert.ErrorIs(t, err, model.ErrRegionRequired)

	srv := newForecastServer(t, http.StatusBadRequest, `{"error": {"code": 1006, "message": "No matching location found."}}`, nil)
	_, err = NewClient(srv.URL, "test-key", time.Second, nil, discardLogger()).GetWeather(context.Background(), "atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No matching location found.")

	srv = newForecastServer(t, http.StatusBadGateway, `{}`, nil)
	_, err = NewClient(srv.URL, "test-key", time.Second, nil, discardLogger()).GetWeather(context.Background(), "chennai")
	assert.Error(t, err)
}

func TestEstimateMonthlyRainfall(t *testing.T) {
	tests := []struct {
		name     string
		weekly   float64
		baseline float64
		want     float64
	}{
		{"blend", 14, 120, 84},
		{"dry week hits the floor", 0, 120, 48},
		{"negative weekly treated as dry", -3, 60, 24},
		{"wet week", 70, 60, 204},
		{"no baseline", 7, 0, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateMonthlyRainfall(tt.weekly, tt.baseline), 1e-9)
		})
	}
}
