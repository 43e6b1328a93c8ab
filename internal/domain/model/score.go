package model

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

type ConfidenceLevel string

const (
	ConfidenceCritical  ConfidenceLevel = "Critical"
	ConfidenceModerate  ConfidenceLevel = "Moderate"
	ConfidenceGood      ConfidenceLevel = "Good"
	ConfidenceExcellent ConfidenceLevel = "Excellent"
)

// ViabilityResult is the outcome of a Monte Carlo weather viability run.
type ViabilityResult struct {
	Crop        CropName  `json:"crop"`
	Probability float64   `json:"probability"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Simulations int       `json:"simulations"`
}

// ScoreRecord is the per-crop result of one recommendation request.
type ScoreRecord struct {
	Crop              CropName        `json:"crop"`
	MLProbability     float64         `json:"ml_probability"`
	MCProbability     float64         `json:"mc_probability"`
	MCRiskLevel       RiskLevel       `json:"mc_risk_level"`
	CombinedScore     float64         `json:"combined_score"`
	AdjustedScore     float64         `json:"adjusted_score"`
	ConfidencePercent float64         `json:"confidence_percent"`
	ConfidenceLevel   ConfidenceLevel `json:"confidence_level"`
	Explanation       []string        `json:"why"`
}

type Recommendation struct {
	Region      string        `json:"region"`
	ClimateZone ClimateZone   `json:"climate_zone"`
	Ranked      []ScoreRecord `json:"all_scores"`
	Top3        []ScoreRecord `json:"top_3"`
	Worst       ScoreRecord   `json:"worst"`
}
