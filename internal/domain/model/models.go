package model

import "strings"

// ClimateZone is the coarse climate classification of a region.
type ClimateZone string

const (
	Tropical  ClimateZone = "tropical"
	Temperate ClimateZone = "temperate"
)

// NormalizeRegion trims and lower-cases a region name.
func NormalizeRegion(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}

// Location is a region resolved to coordinates.
type Location struct {
	Region string  `json:"region"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

type SoilSample struct {
	Region       string  `json:"region"`
	SoilType     string  `json:"soil_type"`
	BaseSoilType string  `json:"base_soil_type"`
	N            float64 `json:"N"`
	P            float64 `json:"P"`
	K            float64 `json:"K"`
	PH           float64 `json:"ph"`
}

func (s SoilSample) NutrientTotal() float64 {
	return s.N + s.P + s.K
}

type WeatherSample struct {
	CurrentTemperature       float64 `json:"current_temperature"`
	WeeklyAvgTemperature     float64 `json:"weekly_avg_temperature"`
	WeeklyMaxTemperature     float64 `json:"weekly_max_temperature"`
	WeeklyMinTemperature     float64 `json:"weekly_min_temperature"`
	WeeklyAvgHumidity        float64 `json:"weekly_avg_humidity"`
	EstimatedMonthlyRainfall float64 `json:"estimated_monthly_rainfall"`
}

// FeatureVector is the engineered classifier input derived from soil and weather.
type FeatureVector struct {
	N                  float64 `json:"N"`
	P                  float64 `json:"P"`
	K                  float64 `json:"K"`
	Temperature        float64 `json:"temperature"`
	Humidity           float64 `json:"humidity"`
	PH                 float64 `json:"ph"`
	Rainfall           float64 `json:"rainfall"`
	TemperatureSquared float64 `json:"temperature_squared"`
	RainfallLog        float64 `json:"rainfall_log"`
	NutrientTotal      float64 `json:"nutrient_total"`
	NPRatio            float64 `json:"np_ratio"`
	NPKRatio           float64 `json:"NPK_ratio"`
	NutrientBalance    float64 `json:"nutrient_balance"`
	ClimateIndex       float64 `json:"climate_index"`
}
