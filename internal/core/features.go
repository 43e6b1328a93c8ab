package core

import (
	"math"

	"crop_service/internal/domain/model"
)

// BuildFeatures derives the classifier input from soil and weather samples.
func BuildFeatures(soil model.SoilSample, weather model.WeatherSample) model.FeatureVector {
	n, p, k := soil.N, soil.P, soil.K
	temperature := weather.WeeklyAvgTemperature
	humidity := weather.WeeklyAvgHumidity
	rainfall := weather.EstimatedMonthlyRainfall

	return model.FeatureVector{
		N:                  n,
		P:                  p,
		K:                  k,
		Temperature:        temperature,
		Humidity:           humidity,
		PH:                 soil.PH,
		Rainfall:           rainfall,
		TemperatureSquared: temperature * temperature,
		RainfallLog:        math.Log(rainfall + 1),
		NutrientTotal:      n + p + k,
		NPRatio:            n / (p + 1),
		NPKRatio:           (n + p + 1) / (k + 1),
		NutrientBalance:    math.Abs(n-p) + math.Abs(p-k) + math.Abs(n-k),
		ClimateIndex:       (temperature * humidity) / (rainfall + 1),
	}
}
