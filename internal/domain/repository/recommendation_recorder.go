package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"crop_service/internal/domain/model"
)

// RecommendationRecorder stores generated recommendations for later
// analysis and model retraining.
type RecommendationRecorder interface {
	SaveRecommendation(ctx context.Context, id uuid.UUID, soil model.SoilSample, weather model.WeatherSample, rec *model.Recommendation) error
}

type PostgresRecommendationRecorder struct {
	db *sqlx.DB
}

func NewPostgresRecommendationRecorder(db *sqlx.DB) *PostgresRecommendationRecorder {
	return &PostgresRecommendationRecorder{db: db}
}

func (r *PostgresRecommendationRecorder) SaveRecommendation(
	ctx context.Context,
	id uuid.UUID,
	soil model.SoilSample,
	weather model.WeatherSample,
	rec *model.Recommendation,
) error {
	const query = `
		INSERT INTO recommendations (
			id, region, climate_zone,
			soil_type, n, p, k, ph,
			avg_temperature, avg_humidity, monthly_rainfall,
			top_crop, top_confidence, worst_crop,
			scores, recorded_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW()
		)`

	if rec == nil || len(rec.Ranked) == 0 {
		return model.ErrEmptyScoreSet
	}

	scoresJSON, err := json.Marshal(rec.Ranked)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}

	top := rec.Ranked[0]
	_, err = r.db.ExecContext(ctx, query,
		id.String(), rec.Region, string(rec.ClimateZone),
		soil.SoilType, soil.N, soil.P, soil.K, soil.PH,
		weather.WeeklyAvgTemperature, weather.WeeklyAvgHumidity, weather.EstimatedMonthlyRainfall,
		string(top.Crop), top.ConfidencePercent, string(rec.Worst.Crop),
		scoresJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}
	return nil
}
