package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"crop_service/internal/domain/model"
	"crop_service/internal/domain/repository"
)

const (
	AgronomicNote = "Hybrid ML probability, climate risk simulation, and agronomic rules applied."
	EngineName    = "Hybrid ML + Monte Carlo + Explainable Calibration"

	RecommendationGeneratedEvent = "crop.recommendation.generated"
)

// EventPublisher delivers domain events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}

// RecommendationReport is a recommendation together with the inputs it was
// computed from.
type RecommendationReport struct {
	ID             uuid.UUID             `json:"id"`
	GeneratedAt    time.Time             `json:"generated_at"`
	Soil           model.SoilSample      `json:"soil"`
	Weather        model.WeatherSample   `json:"weather"`
	Recommendation *model.Recommendation `json:"recommendation"`
	AgronomicNote  string                `json:"agronomic_note"`
	Engine         string                `json:"engine"`
}

// SelectionRisk is the risk of sowing a crop the user picked.
type SelectionRisk string

const (
	SelectionLow      SelectionRisk = "Low"
	SelectionMedium   SelectionRisk = "Medium"
	SelectionHigh     SelectionRisk = "High"
	SelectionCritical SelectionRisk = "Critical"
)

type SelectedCrop struct {
	Crop              model.CropName `json:"crop"`
	ConfidencePercent float64        `json:"confidence_percent"`
	RiskLevel         SelectionRisk  `json:"risk_level"`
	Known             bool           `json:"known"`
}

type RiskAnalysis struct {
	Report   *RecommendationReport `json:"report"`
	Selected SelectedCrop          `json:"selected_crop"`
}

// RecommendationService fetches the request inputs from the external
// collaborators and runs them through the Recommender.
type RecommendationService struct {
	soil        model.SoilProvider
	weather     model.WeatherProvider
	classifier  model.Classifier
	recommender *Recommender
	catalog     *model.CropCatalog
	sources     SourceProvider
	recorder    repository.RecommendationRecorder
	publisher   EventPublisher
	saveData    bool
	logger      *slog.Logger
	now         func() time.Time
}

type ServiceDeps struct {
	Soil        model.SoilProvider
	Weather     model.WeatherProvider
	Classifier  model.Classifier
	Recommender *Recommender
	Catalog     *model.CropCatalog
	Sources     SourceProvider
	Recorder    repository.RecommendationRecorder
	Publisher   EventPublisher
	SaveData    bool
	Logger      *slog.Logger
}

func NewRecommendationService(deps ServiceDeps) *RecommendationService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationService{
		soil:        deps.Soil,
		weather:     deps.Weather,
		classifier:  deps.Classifier,
		recommender: deps.Recommender,
		catalog:     deps.Catalog,
		sources:     deps.Sources,
		recorder:    deps.Recorder,
		publisher:   deps.Publisher,
		saveData:    deps.SaveData,
		logger:      logger.With("module", "core.recommendation"),
		now:         time.Now,
	}
}

// Recommend ranks crops for a region.
func (s *RecommendationService) Recommend(ctx context.Context, region string) (*RecommendationReport, error) {
	region = model.NormalizeRegion(region)
	if region == "" {
		return nil, model.ErrRegionRequired
	}

	soil, err := s.soil.GetSoil(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("failed to get soil data: %w", err)
	}

	weather, err := s.weather.GetWeather(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("failed to get weather data: %w", err)
	}

	probabilities, err := s.classifier.PredictProba(ctx, BuildFeatures(soil, weather))
	if err != nil {
		return nil, fmt.Errorf("failed to get classifier probabilities: %w", err)
	}

	rec, err := s.recommender.Recommend(region, soil, weather, probabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to score crops: %w", err)
	}

	report := &RecommendationReport{
		ID:             uuid.New(),
		GeneratedAt:    s.now().UTC(),
		Soil:           soil,
		Weather:        weather,
		Recommendation: rec,
		AgronomicNote:  AgronomicNote,
		Engine:         EngineName,
	}

	s.logger.InfoContext(ctx, "recommendation generated",
		"operation", "recommend",
		"outcome", "success",
		"region", region,
		"recommendation_id", report.ID.String(),
		"crops", len(rec.Ranked),
		"top_crop", string(rec.Ranked[0].Crop),
	)

	s.record(ctx, report)
	s.publish(ctx, report)
	return report, nil
}

// Analyze recommends crops for a region and rates the user's chosen crop.
func (s *RecommendationService) Analyze(ctx context.Context, region string, crop string) (*RiskAnalysis, error) {
	selected, err := model.ParseCropName(crop)
	if err != nil {
		return nil, err
	}

	report, err := s.Recommend(ctx, region)
	if err != nil {
		return nil, err
	}

	sel := SelectedCrop{Crop: selected, RiskLevel: SelectionCritical}
	for _, rec := range report.Recommendation.Ranked {
		if rec.Crop == selected {
			sel.ConfidencePercent = rec.ConfidencePercent
			sel.RiskLevel = SelectionRiskFor(rec.ConfidencePercent)
			sel.Known = true
			break
		}
	}
	return &RiskAnalysis{Report: report, Selected: sel}, nil
}

// SelectionRiskFor buckets a confidence percentage into a sowing risk.
func SelectionRiskFor(confidence float64) SelectionRisk {
	switch {
	case confidence >= 80:
		return SelectionLow
	case confidence >= 60:
		return SelectionMedium
	case confidence >= 40:
		return SelectionHigh
	default:
		return SelectionCritical
	}
}

// Simulate runs a single viability simulation outside of a recommendation.
func (s *RecommendationService) Simulate(crop model.CropName, rainfallMM, temperatureC float64, params SimulationParams) model.ViabilityResult {
	return s.recommender.Simulator().Simulate(crop, rainfallMM, temperatureC, params, s.sources.Source(crop))
}

// Crops lists the known crop profiles.
func (s *RecommendationService) Crops() []model.CropProfile {
	return s.catalog.Profiles()
}

func (s *RecommendationService) record(ctx context.Context, report *RecommendationReport) {
	if !s.saveData || s.recorder == nil {
		return
	}
	if err := s.recorder.SaveRecommendation(ctx, report.ID, report.Soil, report.Weather, report.Recommendation); err != nil {
		s.logger.WarnContext(ctx, "failed to save recommendation",
			"operation", "record", "outcome", "failure", "error", err.Error())
	}
}

func (s *RecommendationService) publish(ctx context.Context, report *RecommendationReport) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to marshal recommendation event", "error", err.Error())
		return
	}
	if err := s.publisher.Publish(ctx, RecommendationGeneratedEvent, payload, report.Recommendation.Region); err != nil {
		s.logger.WarnContext(ctx, "failed to publish recommendation event",
			"operation", "publish", "outcome", "failure", "error", err.Error())
	}
}
