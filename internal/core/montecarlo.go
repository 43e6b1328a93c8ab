package core

import (
	"math"

	"crop_service/internal/domain/model"
)

const (
	DefaultSimulations = 2500

	defaultTemperatureStd = 1.8
	rainfallStdFraction   = 0.15
	minRainfallStd        = 5.0

	rainfallWeight    = 0.6
	temperatureWeight = 0.4

	weakScoreThreshold = 0.4
	weakScorePenalty   = 0.7

	lowRiskThreshold      = 0.70
	moderateRiskThreshold = 0.45
)

// SimulationParams tunes a viability run. Zero values select the defaults:
// DefaultSimulations trials, rainfall std of 15% of the baseline (at least
// 5mm) and a temperature std of 1.8°C.
type SimulationParams struct {
	Simulations    int
	RainfallStd    float64
	TemperatureStd float64
}

// Simulator estimates how viable a crop is under natural year-to-year
// weather variability around a baseline.
type Simulator struct {
	catalog *model.CropCatalog
}

func NewSimulator(catalog *model.CropCatalog) *Simulator {
	return &Simulator{catalog: catalog}
}

// Simulate samples rainfall and temperature around the baseline and averages
// the weighted suitability of each trial. Unknown crops and non-positive
// rainfall yield probability 0 and High risk without sampling.
func (s *Simulator) Simulate(
	crop model.CropName,
	baseRainfallMM float64,
	baseTemperatureC float64,
	params SimulationParams,
	src GaussianSource,
) model.ViabilityResult {
	simulations := params.Simulations
	if simulations <= 0 {
		simulations = DefaultSimulations
	}

	failed := model.ViabilityResult{
		Crop:        crop,
		Probability: 0,
		RiskLevel:   model.RiskHigh,
		Simulations: simulations,
	}

	profile, ok := s.catalog.Lookup(crop)
	if !ok || baseRainfallMM <= 0 {
		return failed
	}

	rainfallStd := params.RainfallStd
	if rainfallStd <= 0 {
		rainfallStd = math.Max(baseRainfallMM*rainfallStdFraction, minRainfallStd)
	}
	temperatureStd := params.TemperatureStd
	if temperatureStd <= 0 {
		temperatureStd = defaultTemperatureStd
	}

	var total float64
	for i := 0; i < simulations; i++ {
		rain := math.Max(0, baseRainfallMM+rainfallStd*src.NormFloat64())
		// sub-zero temperatures are meaningful, no clamp
		temp := baseTemperatureC + temperatureStd*src.NormFloat64()

		rainScore := Suitability(rain, profile.RainfallMin, profile.RainfallMax)
		tempScore := Suitability(temp, profile.TempMin, profile.TempMax)

		combined := rainScore*rainfallWeight + tempScore*temperatureWeight
		if combined < weakScoreThreshold {
			combined *= weakScorePenalty
		}
		total += combined
	}

	probability := roundTo(total/float64(simulations), 3)

	return model.ViabilityResult{
		Crop:        crop,
		Probability: probability,
		RiskLevel:   RiskLevelFor(probability),
		Simulations: simulations,
	}
}

// RiskLevelFor buckets a viability probability. Lower bounds are inclusive.
func RiskLevelFor(probability float64) model.RiskLevel {
	switch {
	case probability >= lowRiskThreshold:
		return model.RiskLow
	case probability >= moderateRiskThreshold:
		return model.RiskModerate
	default:
		return model.RiskHigh
	}
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
