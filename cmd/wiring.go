package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"crop_service/internal/config"
	"crop_service/internal/core"
	"crop_service/internal/domain/model"
	"crop_service/internal/domain/repository"
	"crop_service/internal/infrastructure/events"
	"crop_service/internal/infrastructure/mlclient"
	"crop_service/internal/infrastructure/weather"
)

type app struct {
	service *core.RecommendationService
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	if cfg.MLServiceURL == "" {
		return nil, errors.New("ML_SERVICE_URL is required")
	}
	a := &app{}

	var (
		postgresRepo *repository.PostgresRepository
		soil         model.SoilProvider = repository.StaticSoilProvider{}
		recorder     repository.RecommendationRecorder
		stored       []model.CropProfile
	)
	if cfg.PostgresURL != "" {
		repo, err := repository.NewPostgresRepository(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		postgresRepo = repo
		a.closers = append(a.closers, repo.Close)

		stored, err = repo.LoadCropProfiles(ctx)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		soil = repository.NewPostgresSoilProvider(repo.DB, logger)
		recorder = repository.NewPostgresRecommendationRecorder(repo.DB)
	} else {
		logger.Warn("POSTGRES_URL not set, using built-in crop profiles and fallback soil values")
	}

	catalog := model.NewCropCatalog(model.DefaultCropProfiles(), stored)
	logger.Info("crop catalog loaded", "profiles", catalog.Len(), "stored_profiles", len(stored))

	var locator model.RegionLocator
	if cfg.OverpassURL != "" {
		locator = repository.NewOverpassRegionLocator(cfg.OverpassURL, cfg.OverpassTimeout)
	}

	var weatherProvider model.WeatherProvider = weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherTimeout, locator, logger)
	if cfg.RedisURL != "" {
		client, err := weather.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("weather cache disabled", "error", err.Error())
		} else {
			a.closers = append(a.closers, client.Close)
			weatherProvider = weather.NewCachedProvider(weatherProvider, weather.NewRedisCache(client), cfg.WeatherCacheTTL, logger)
		}
	}

	var publisher core.EventPublisher = events.NewLoggingPublisher(logger)
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			core.RecommendationGeneratedEvent: cfg.KafkaTopic,
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		a.closers = append(a.closers, kp.Close)
		publisher = kp
	}

	sources := core.NewSourceProvider(cfg.SimulationSeed)
	recommender := core.NewRecommender(catalog, newRuleEngine(cfg), sources, core.RecommenderConfig{
		Simulations: cfg.SimulationRuns,
		Workers:     cfg.SimulationWorkers,
	})

	a.service = core.NewRecommendationService(core.ServiceDeps{
		Soil:        soil,
		Weather:     weatherProvider,
		Classifier:  mlclient.NewHTTPClassifier(cfg.MLServiceURL, cfg.MLTimeout),
		Recommender: recommender,
		Catalog:     catalog,
		Sources:     sources,
		Recorder:    recorder,
		Publisher:   publisher,
		SaveData:    cfg.SaveRecommendations && postgresRepo != nil,
		Logger:      logger,
	})
	return a, nil
}

func newRuleEngine(cfg config.Config) *core.RuleEngine {
	zones := core.DefaultClimateZones()
	for region, zone := range cfg.ClimateZones {
		zones[model.NormalizeRegion(region)] = model.ClimateZone(zone)
	}
	return core.NewRuleEngine(zones, nil)
}
