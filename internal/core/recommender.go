package core

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"crop_service/internal/domain/model"
)

// RecommenderConfig controls the scoring pipeline. Zero values select
// DefaultSimulations and one worker per CPU.
type RecommenderConfig struct {
	Simulations int
	Workers     int
}

// Recommender runs the scoring pipeline: Monte Carlo viability and score
// composition per crop, agronomic rules, normalization, ranking.
// It holds only read-only state and is safe for concurrent use.
type Recommender struct {
	simulator *Simulator
	rules     *RuleEngine
	sources   SourceProvider
	cfg       RecommenderConfig
}

func NewRecommender(catalog *model.CropCatalog, rules *RuleEngine, sources SourceProvider, cfg RecommenderConfig) *Recommender {
	if cfg.Simulations <= 0 {
		cfg.Simulations = DefaultSimulations
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Recommender{
		simulator: NewSimulator(catalog),
		rules:     rules,
		sources:   sources,
		cfg:       cfg,
	}
}

func (r *Recommender) Simulator() *Simulator { return r.simulator }

func (r *Recommender) Rules() *RuleEngine { return r.rules }

// Recommend ranks every crop of the classifier output for a region.
func (r *Recommender) Recommend(
	region string,
	soil model.SoilSample,
	weather model.WeatherSample,
	probabilities model.ClassifierOutput,
) (*model.Recommendation, error) {
	if len(probabilities) == 0 {
		return nil, model.ErrEmptyScoreSet
	}
	if err := probabilities.Validate(); err != nil {
		return nil, fmt.Errorf("classifier output: %w", err)
	}

	records := make([]model.ScoreRecord, len(probabilities))
	combined := make([]CropScore, len(probabilities))

	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)
	for i, cp := range probabilities {
		g.Go(func() error {
			mc := r.simulator.Simulate(
				cp.Crop,
				weather.EstimatedMonthlyRainfall,
				weather.WeeklyAvgTemperature,
				SimulationParams{Simulations: r.cfg.Simulations},
				r.sources.Source(cp.Crop),
			)
			score := Compose(cp.Probability, mc.Probability)
			records[i] = model.ScoreRecord{
				Crop:          cp.Crop,
				MLProbability: cp.Probability,
				MCProbability: mc.Probability,
				MCRiskLevel:   mc.RiskLevel,
				CombinedScore: score,
			}
			combined[i] = CropScore{Crop: cp.Crop, Score: score}
			return nil
		})
	}
	_ = g.Wait()

	adjusted := r.rules.Adjust(combined, soil, weather, region)
	confidences, err := Normalize(adjusted)
	if err != nil {
		return nil, err
	}

	for i := range records {
		records[i].AdjustedScore = adjusted[i].Score
		records[i].ConfidencePercent = confidences[i].Score
		records[i].ConfidenceLevel = ConfidenceLevelFor(confidences[i].Score)
		records[i].Explanation = Explain(soil, weather, records[i].MCProbability)
	}

	ranked, top, worst := Rank(records)
	return &model.Recommendation{
		Region:      model.NormalizeRegion(region),
		ClimateZone: r.rules.ClimateZone(region),
		Ranked:      ranked,
		Top3:        top,
		Worst:       worst,
	}, nil
}
