package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"crop_service/internal/domain/model"
)

// PostgresSoilProvider resolves soil samples from the soil_types and
// soil_nutrients tables, falling back to generic values when a region or
// soil type is not mapped.
type PostgresSoilProvider struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresSoilProvider(db *sqlx.DB, logger *slog.Logger) *PostgresSoilProvider {
	return &PostgresSoilProvider{db: db, logger: logger}
}

type soilTypeRow struct {
	Region   string  `db:"region"`
	SoilType string  `db:"soil_type"`
	PH       float64 `db:"ph"`
}

type nutrientRow struct {
	N float64 `db:"n"`
	P float64 `db:"p"`
	K float64 `db:"k"`
}

func (p *PostgresSoilProvider) GetSoil(ctx context.Context, region string) (model.SoilSample, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return model.SoilSample{}, model.ErrRegionRequired
	}

	var st soilTypeRow
	err := p.db.GetContext(ctx, &st, `
		SELECT region, soil_type, ph
		FROM soil_types
		WHERE LOWER(region) = LOWER($1)
		LIMIT 1`, region)
	if errors.Is(err, sql.ErrNoRows) {
		p.warn(ctx, region, "region not found in soil data, using fallback")
		return model.SoilSample{
			Region:       region,
			SoilType:     "Generic Loam",
			BaseSoilType: "Loam",
			N:            60,
			P:            35,
			K:            45,
			PH:           6.8,
		}, nil
	}
	if err != nil {
		return model.SoilSample{}, fmt.Errorf("failed to query soil type: %w", err)
	}

	var baseTypes []string
	if err := p.db.SelectContext(ctx, &baseTypes, `SELECT DISTINCT soil_type FROM soil_nutrients`); err != nil {
		return model.SoilSample{}, fmt.Errorf("failed to query soil nutrient types: %w", err)
	}

	base, ok := matchBaseSoilType(st.SoilType, baseTypes)
	if !ok {
		p.warn(ctx, region, "base soil type not mapped, using fallback nutrients")
		return model.SoilSample{
			Region:       region,
			SoilType:     st.SoilType,
			BaseSoilType: "Generic",
			N:            55,
			P:            30,
			K:            40,
			PH:           st.PH,
		}, nil
	}

	var nr nutrientRow
	err = p.db.GetContext(ctx, &nr, `
		SELECT n, p, k
		FROM soil_nutrients
		WHERE LOWER(soil_type) = LOWER($1)
		LIMIT 1`, base)
	if errors.Is(err, sql.ErrNoRows) {
		p.warn(ctx, region, "nutrient row missing, using fallback values")
		return model.SoilSample{
			Region:       region,
			SoilType:     st.SoilType,
			BaseSoilType: base,
			N:            55,
			P:            30,
			K:            40,
			PH:           st.PH,
		}, nil
	}
	if err != nil {
		return model.SoilSample{}, fmt.Errorf("failed to query soil nutrients: %w", err)
	}

	return model.SoilSample{
		Region:       st.Region,
		SoilType:     st.SoilType,
		BaseSoilType: base,
		N:            nr.N,
		P:            nr.P,
		K:            nr.K,
		PH:           st.PH,
	}, nil
}

func (p *PostgresSoilProvider) warn(ctx context.Context, region, msg string) {
	p.logger.WarnContext(ctx, msg, "module", "repository.soil", "region", region)
}

// matchBaseSoilType finds the nutrient soil type named inside a full soil
// type description, e.g. "Red Loamy" -> "Red". The longest match wins.
func matchBaseSoilType(soilType string, baseTypes []string) (string, bool) {
	full := strings.ToLower(strings.TrimSpace(soilType))
	var best string
	for _, base := range baseTypes {
		b := strings.ToLower(strings.TrimSpace(base))
		if b == "" || !strings.Contains(full, b) {
			continue
		}
		if len(b) > len(best) {
			best = b
		}
	}
	if best == "" {
		return "", false
	}
	for _, base := range baseTypes {
		if strings.ToLower(strings.TrimSpace(base)) == best {
			return strings.TrimSpace(base), true
		}
	}
	return "", false
}

// StaticSoilProvider is used when no soil database is configured.
type StaticSoilProvider struct{}

func (StaticSoilProvider) GetSoil(_ context.Context, region string) (model.SoilSample, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return model.SoilSample{}, model.ErrRegionRequired
	}
	return model.SoilSample{
		Region:       region,
		SoilType:     "Unknown",
		BaseSoilType: "Generic",
		N:            50,
		P:            30,
		K:            40,
		PH:           6.5,
	}, nil
}
