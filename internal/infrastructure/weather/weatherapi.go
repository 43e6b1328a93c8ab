package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crop_service/internal/domain/model"
)

const (
	DefaultBaseURL = "http://api.weatherapi.com/v1"

	forecastDays     = 7
	defaultBaseline  = 80.0
	apiBlendWeight   = 0.6
	baselineWeight   = 0.4
	baselineFloorPct = 0.4
)

var ErrAPIKeyMissing = errors.New("weather API key missing")

// RainfallBaselines are long-run monthly rainfall means (mm) per region.
func RainfallBaselines() map[string]float64 {
	return map[string]float64{
		"chennai":    120,
		"coimbatore": 90,
		"madurai":    85,
		"delhi":      60,
	}
}

// Client fetches a 7-day forecast from WeatherAPI and condenses it into a
// WeatherSample.
type Client struct {
	baseURL   string
	apiKey    string
	client    *http.Client
	locator   model.RegionLocator
	baselines map[string]float64
	logger    *slog.Logger
}

// NewClient builds a forecast client. locator may be nil, in which case the
// region name is sent as the query.
func NewClient(baseURL, apiKey string, timeout time.Duration, locator model.RegionLocator, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		client:    &http.Client{Timeout: timeout},
		locator:   locator,
		baselines: RainfallBaselines(),
		logger:    logger,
	}
}

type forecastResponse struct {
	Current struct {
		TempC    float64 `json:"temp_c"`
		Humidity float64 `json:"humidity"`
		PrecipMM float64 `json:"precip_mm"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Day struct {
				MaxTempC      float64 `json:"maxtemp_c"`
				MinTempC      float64 `json:"mintemp_c"`
				AvgTempC      float64 `json:"avgtemp_c"`
				AvgHumidity   float64 `json:"avghumidity"`
				TotalPrecipMM float64 `json:"totalprecip_mm"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) GetWeather(ctx context.Context, region string) (model.WeatherSample, error) {
	region = model.NormalizeRegion(region)
	if region == "" {
		return model.WeatherSample{}, model.ErrRegionRequired
	}
	if c.apiKey == "" {
		return model.WeatherSample{}, ErrAPIKeyMissing
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", c.query(ctx, region))
	params.Set("days", fmt.Sprint(forecastDays))
	params.Set("aqi", "no")
	params.Set("alerts", "no")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast.json?"+params.Encode(), nil)
	if err != nil {
		return model.WeatherSample{}, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return model.WeatherSample{}, fmt.Errorf("weather API request failed: %w", err)
	}
	defer resp.Body.Close()

	var data forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.WeatherSample{}, fmt.Errorf("failed to decode weather response (status %d): %w", resp.StatusCode, err)
	}
	if data.Error != nil {
		return model.WeatherSample{}, fmt.Errorf("weather API error %d: %s", data.Error.Code, data.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return model.WeatherSample{}, fmt.Errorf("weather API returned status: %d", resp.StatusCode)
	}

	return c.summarize(region, data), nil
}

// query prefers coordinates from the locator and falls back to "<region>,IN".
func (c *Client) query(ctx context.Context, region string) string {
	if c.locator != nil {
		loc, err := c.locator.Locate(ctx, region)
		if err == nil {
			return fmt.Sprintf("%.4f,%.4f", loc.Lat, loc.Lon)
		}
		c.logger.WarnContext(ctx, "region lookup failed, querying by name",
			"module", "weather", "region", region, "error", err.Error())
	}
	return region + ",IN"
}

func (c *Client) summarize(region string, data forecastResponse) model.WeatherSample {
	current := data.Current
	days := data.Forecast.ForecastDay

	var (
		weeklyRainfall = current.PrecipMM * 7
		avgTemp        = current.TempC
		maxTemp        = current.TempC
		minTemp        = current.TempC
		avgHumidity    = current.Humidity
	)

	if len(days) > 0 {
		var sumTemp, sumHumidity, sumRain float64
		maxTemp, minTemp = math.Inf(-1), math.Inf(1)
		for _, d := range days {
			sumTemp += d.Day.AvgTempC
			sumHumidity += d.Day.AvgHumidity
			sumRain += d.Day.TotalPrecipMM
			maxTemp = math.Max(maxTemp, d.Day.MaxTempC)
			minTemp = math.Min(minTemp, d.Day.MinTempC)
		}
		n := float64(len(days))
		weeklyRainfall = sumRain
		avgTemp = sumTemp / n
		avgHumidity = sumHumidity / n
	}

	return model.WeatherSample{
		CurrentTemperature:       round2(current.TempC),
		WeeklyAvgTemperature:     round2(avgTemp),
		WeeklyMaxTemperature:     round2(maxTemp),
		WeeklyMinTemperature:     round2(minTemp),
		WeeklyAvgHumidity:        round2(avgHumidity),
		EstimatedMonthlyRainfall: round2(EstimateMonthlyRainfall(weeklyRainfall, c.baseline(region))),
	}
}

func (c *Client) baseline(region string) float64 {
	if b, ok := c.baselines[region]; ok {
		return b
	}
	return defaultBaseline
}

// EstimateMonthlyRainfall extrapolates a week of forecast rainfall to a month
// and blends it with the regional baseline, never dropping below 40% of the
// baseline.
func EstimateMonthlyRainfall(weeklyRainfall, baseline float64) float64 {
	var apiMonthly float64
	if weeklyRainfall > 0 {
		apiMonthly = weeklyRainfall / 7.0 * 30.0
	}
	estimate := apiBlendWeight*apiMonthly + baselineWeight*baseline
	return math.Max(estimate, baseline*baselineFloorPct)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
