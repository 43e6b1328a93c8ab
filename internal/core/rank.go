package core

import (
	"sort"

	"crop_service/internal/domain/model"
)

const topN = 3

// Rank sorts records by confidence, highest first. Equal confidences keep
// their input order. records must not be empty.
func Rank(records []model.ScoreRecord) (ranked, top []model.ScoreRecord, worst model.ScoreRecord) {
	ranked = make([]model.ScoreRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConfidencePercent > ranked[j].ConfidencePercent
	})

	n := topN
	if len(ranked) < n {
		n = len(ranked)
	}
	top = ranked[:n:n]
	worst = ranked[len(ranked)-1]
	return ranked, top, worst
}

// ConfidenceLevelFor buckets a confidence percentage.
func ConfidenceLevelFor(percent float64) model.ConfidenceLevel {
	switch {
	case percent < 30:
		return model.ConfidenceCritical
	case percent < 60:
		return model.ConfidenceModerate
	case percent < 80:
		return model.ConfidenceGood
	default:
		return model.ConfidenceExcellent
	}
}

const fallbackReason = "Moderate environmental compatibility"

// Explain lists the conditions that favour a crop, in a fixed order.
func Explain(soil model.SoilSample, weather model.WeatherSample, mcProbability float64) []string {
	var reasons []string

	if t := weather.WeeklyAvgTemperature; t >= 20 && t <= 30 {
		reasons = append(reasons, "Temperature within optimal growth range")
	}
	if weather.EstimatedMonthlyRainfall > 40 {
		reasons = append(reasons, "Rainfall supports stable yield")
	}
	if weather.WeeklyAvgHumidity > 50 {
		reasons = append(reasons, "Humidity favorable for crop development")
	}
	if soil.NutrientTotal() > 150 {
		reasons = append(reasons, "Strong soil nutrient availability")
	}
	if mcProbability > 0.6 {
		reasons = append(reasons, "Low climate volatility risk")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, fallbackReason)
	}
	return reasons
}
