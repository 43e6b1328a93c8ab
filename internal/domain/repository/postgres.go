package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"crop_service/internal/domain/model"
)

type PostgresRepository struct {
	DB *sqlx.DB
}

func NewPostgresRepository(ctx context.Context, connStr string) (*PostgresRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &PostgresRepository{DB: db}, nil
}

func (r *PostgresRepository) Close() error {
	return r.DB.Close()
}

type cropProfileRow struct {
	CropName    string  `db:"crop_name"`
	RainfallMin float64 `db:"rainfall_min"`
	RainfallMax float64 `db:"rainfall_max"`
	TempMin     float64 `db:"temp_min"`
	TempMax     float64 `db:"temp_max"`
}

// LoadCropProfiles reads the crop_profiles reference table. Rows with an
// invalid crop name or an inverted range are rejected.
func (r *PostgresRepository) LoadCropProfiles(ctx context.Context) ([]model.CropProfile, error) {
	const query = `
		SELECT
			crop_name,
			rainfall_min,
			rainfall_max,
			temp_min,
			temp_max
		FROM crop_profiles
		ORDER BY crop_name`

	var rows []cropProfileRow
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query crop profiles: %w", err)
	}

	profiles := make([]model.CropProfile, 0, len(rows))
	for _, row := range rows {
		name, err := model.ParseCropName(row.CropName)
		if err != nil {
			return nil, fmt.Errorf("crop_profiles row %q: %w", row.CropName, err)
		}
		if row.RainfallMin > row.RainfallMax || row.TempMin > row.TempMax {
			return nil, fmt.Errorf("crop_profiles row %q: min exceeds max", row.CropName)
		}
		profiles = append(profiles, model.CropProfile{
			Crop:        name,
			RainfallMin: row.RainfallMin,
			RainfallMax: row.RainfallMax,
			TempMin:     row.TempMin,
			TempMax:     row.TempMax,
		})
	}
	return profiles, nil
}
