package core

import (
	"math"
	"time"

	"crop_service/internal/domain/model"
)

// CropScore is one crop's score. Slices of CropScore keep the classifier's
// class order through the pipeline.
type CropScore struct {
	Crop  model.CropName
	Score float64
}

var (
	temperateFruits = cropSet(model.Apple, model.Pear, model.Plum)
	tropicalFruits  = cropSet(model.Banana, model.Coconut)
	waterHeavyCrops = cropSet(model.Rice, model.Banana, model.Sugarcane)
	kharifCrops     = cropSet(model.Rice, model.Maize)
	rabiCrops       = cropSet(model.Barley, model.Chickpea)
	heatSensitive   = cropSet(model.Wheat, model.Barley)
)

// DefaultClimateZones maps known regions to their climate zone.
func DefaultClimateZones() map[string]model.ClimateZone {
	return map[string]model.ClimateZone{
		"coimbatore": model.Tropical,
		"chennai":    model.Tropical,
		"madurai":    model.Tropical,
		"delhi":      model.Temperate,
	}
}

// ruleInput is everything a rule may look at for one crop.
type ruleInput struct {
	crop        model.CropName
	zone        model.ClimateZone
	month       time.Month
	rainfall    float64
	temperature float64
	ph          float64
}

type agronomicRule struct {
	name       string
	applies    func(in ruleInput) bool
	multiplier func(in ruleInput) float64
}

func fixed(m float64) func(ruleInput) float64 {
	return func(ruleInput) float64 { return m }
}

var agronomicRules = []agronomicRule{
	{
		name:       "temperate fruit in tropical zone",
		applies:    func(in ruleInput) bool { return in.zone == model.Tropical && temperateFruits[in.crop] },
		multiplier: fixed(0.6),
	},
	{
		name:       "tropical fruit in temperate zone",
		applies:    func(in ruleInput) bool { return in.zone == model.Temperate && tropicalFruits[in.crop] },
		multiplier: fixed(0.6),
	},
	{
		name:    "water-heavy crop rainfall scaling",
		applies: func(in ruleInput) bool { return waterHeavyCrops[in.crop] },
		multiplier: func(in ruleInput) float64 {
			factor := math.Max(0, math.Min(in.rainfall/120.0, 1.0))
			return 0.8 + 0.5*factor
		},
	},
	{
		name:       "rice in tropical zone",
		applies:    func(in ruleInput) bool { return in.zone == model.Tropical && in.crop == model.Rice },
		multiplier: fixed(1.2),
	},
	{
		name: "kharif season",
		applies: func(in ruleInput) bool {
			return in.month >= time.June && in.month <= time.September && kharifCrops[in.crop]
		},
		multiplier: fixed(1.1),
	},
	{
		name: "rabi season",
		applies: func(in ruleInput) bool {
			return (in.month >= time.October || in.month <= time.March) && rabiCrops[in.crop]
		},
		multiplier: fixed(1.1),
	},
	{
		name:       "heat stress",
		applies:    func(in ruleInput) bool { return in.temperature > 38 && heatSensitive[in.crop] },
		multiplier: fixed(0.7),
	},
	{
		name:       "acidic soil for chickpea",
		applies:    func(in ruleInput) bool { return in.ph < 6 && in.crop == model.Chickpea },
		multiplier: fixed(0.85),
	},
}

// RuleEngine applies multiplicative agronomic adjustments that encode
// seasonal and regional knowledge the classifier does not see.
type RuleEngine struct {
	zones map[string]model.ClimateZone
	now   func() time.Time
}

// NewRuleEngine copies zones; a nil now uses time.Now.
func NewRuleEngine(zones map[string]model.ClimateZone, now func() time.Time) *RuleEngine {
	copied := make(map[string]model.ClimateZone, len(zones))
	for region, zone := range zones {
		copied[model.NormalizeRegion(region)] = zone
	}
	if now == nil {
		now = time.Now
	}
	return &RuleEngine{zones: copied, now: now}
}

// ClimateZone returns the zone of region. Unmapped regions are tropical.
func (e *RuleEngine) ClimateZone(region string) model.ClimateZone {
	if zone, ok := e.zones[model.NormalizeRegion(region)]; ok {
		return zone
	}
	return model.Tropical
}

// Adjust multiplies every score by the product of the rules that apply to its
// crop. The input is not modified and the order is preserved.
func (e *RuleEngine) Adjust(scores []CropScore, soil model.SoilSample, weather model.WeatherSample, region string) []CropScore {
	base := e.input(soil, weather, region)
	adjusted := make([]CropScore, len(scores))
	for i, s := range scores {
		in := base
		in.crop = s.Crop
		m, _ := evaluate(in)
		adjusted[i] = CropScore{Crop: s.Crop, Score: s.Score * m}
	}
	return adjusted
}

// Multiplier reports the compound multiplier for one crop and the names of
// the rules that produced it.
func (e *RuleEngine) Multiplier(crop model.CropName, soil model.SoilSample, weather model.WeatherSample, region string) (float64, []string) {
	in := e.input(soil, weather, region)
	in.crop = crop
	return evaluate(in)
}

func (e *RuleEngine) input(soil model.SoilSample, weather model.WeatherSample, region string) ruleInput {
	return ruleInput{
		zone:        e.ClimateZone(region),
		month:       e.now().Month(),
		rainfall:    weather.EstimatedMonthlyRainfall,
		temperature: weather.WeeklyAvgTemperature,
		ph:          soil.PH,
	}
}

func evaluate(in ruleInput) (float64, []string) {
	multiplier := 1.0
	var applied []string
	for _, rule := range agronomicRules {
		if rule.applies(in) {
			multiplier *= rule.multiplier(in)
			applied = append(applied, rule.name)
		}
	}
	return multiplier, applied
}

func cropSet(crops ...model.CropName) map[model.CropName]bool {
	set := make(map[model.CropName]bool, len(crops))
	for _, c := range crops {
		set[c] = true
	}
	return set
}
