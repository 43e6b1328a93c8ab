package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort       int
	RequestTimeout time.Duration
	LogLevel       string

	PostgresURL         string
	SaveRecommendations bool

	OverpassURL     string
	OverpassTimeout time.Duration

	MLServiceURL string
	MLTimeout    time.Duration

	WeatherAPIKey   string
	WeatherAPIURL   string
	WeatherTimeout  time.Duration
	RedisURL        string
	WeatherCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	// SimulationSeed of 0 selects the process-level random generator;
	// any other value makes simulations reproducible.
	SimulationSeed    uint64
	SimulationRuns    int
	SimulationWorkers int

	ClimateZones map[string]string
}

type configFile struct {
	Service struct {
		HTTPPort              int    `yaml:"http_port"`
		RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
		LogLevel              string `yaml:"log_level"`
	} `yaml:"service"`
	Storage struct {
		PostgresURL         string `yaml:"postgres_url"`
		SaveRecommendations *bool  `yaml:"save_recommendations"`
	} `yaml:"storage"`
	Dependencies struct {
		OverpassURL     string `yaml:"overpass_url"`
		MLServiceURL    string `yaml:"ml_service_url"`
		WeatherAPIKey   string `yaml:"weather_api_key"`
		WeatherAPIURL   string `yaml:"weather_api_url"`
		RedisURL        string `yaml:"redis_url"`
		WeatherCacheTTL int    `yaml:"weather_cache_ttl_minutes"`
	} `yaml:"dependencies"`
	Events struct {
		KafkaBrokers []string `yaml:"kafka_brokers"`
		KafkaTopic   string   `yaml:"kafka_topic"`
	} `yaml:"events"`
	Simulation struct {
		Seed    uint64 `yaml:"seed"`
		Runs    int    `yaml:"runs"`
		Workers int    `yaml:"workers"`
	} `yaml:"simulation"`
	ClimateZones map[string]string `yaml:"climate_zones"`
}

func defaults() Config {
	return Config{
		HTTPPort:        8080,
		RequestTimeout:  30 * time.Second,
		LogLevel:        "info",
		OverpassTimeout: 5 * time.Second,
		MLTimeout:       10 * time.Second,
		WeatherTimeout:  10 * time.Second,
		WeatherCacheTTL: 30 * time.Minute,
		KafkaTopic:      "crop.recommendations",
		SimulationRuns:  2500,
	}
}

// Load reads defaults, then the YAML file at path (if it exists), then
// environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := applyFile(&cfg, raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func applyFile(cfg *Config, raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if f.Service.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(f.Service.RequestTimeoutSeconds) * time.Second
	}
	if f.Service.LogLevel != "" {
		cfg.LogLevel = f.Service.LogLevel
	}
	cfg.PostgresURL = f.Storage.PostgresURL
	if f.Storage.SaveRecommendations != nil {
		cfg.SaveRecommendations = *f.Storage.SaveRecommendations
	}
	cfg.OverpassURL = f.Dependencies.OverpassURL
	cfg.MLServiceURL = f.Dependencies.MLServiceURL
	cfg.WeatherAPIKey = f.Dependencies.WeatherAPIKey
	cfg.WeatherAPIURL = f.Dependencies.WeatherAPIURL
	cfg.RedisURL = f.Dependencies.RedisURL
	if f.Dependencies.WeatherCacheTTL > 0 {
		cfg.WeatherCacheTTL = time.Duration(f.Dependencies.WeatherCacheTTL) * time.Minute
	}
	cfg.KafkaBrokers = f.Events.KafkaBrokers
	if f.Events.KafkaTopic != "" {
		cfg.KafkaTopic = f.Events.KafkaTopic
	}
	cfg.SimulationSeed = f.Simulation.Seed
	if f.Simulation.Runs > 0 {
		cfg.SimulationRuns = f.Simulation.Runs
	}
	cfg.SimulationWorkers = f.Simulation.Workers
	cfg.ClimateZones = f.ClimateZones
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.RequestTimeout = time.Duration(envInt("REQUEST_TIMEOUT_SECONDS", int(cfg.RequestTimeout.Seconds()))) * time.Second
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.PostgresURL = envOrDefault("POSTGRES_URL", cfg.PostgresURL)
	cfg.SaveRecommendations = envBool("SAVE_RECOMMENDATIONS", cfg.SaveRecommendations)
	cfg.OverpassURL = envOrDefault("OVERPASS_URL", cfg.OverpassURL)
	cfg.MLServiceURL = envOrDefault("ML_SERVICE_URL", cfg.MLServiceURL)
	cfg.WeatherAPIKey = envOrDefault("WEATHER_API_KEY", cfg.WeatherAPIKey)
	cfg.WeatherAPIURL = envOrDefault("WEATHER_API_URL", cfg.WeatherAPIURL)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.WeatherCacheTTL = time.Duration(envInt("WEATHER_CACHE_TTL_MINUTES", int(cfg.WeatherCacheTTL.Minutes()))) * time.Minute
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		cfg.KafkaBrokers = splitList(raw)
	}
	cfg.KafkaTopic = envOrDefault("KAFKA_TOPIC", cfg.KafkaTopic)
	if raw := os.Getenv("SIMULATION_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SIMULATION_SEED %q: %w", raw, err)
		}
		cfg.SimulationSeed = seed
	}
	cfg.SimulationRuns = envInt("SIMULATION_RUNS", cfg.SimulationRuns)
	cfg.SimulationWorkers = envInt("SIMULATION_WORKERS", cfg.SimulationWorkers)
	return nil
}

func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTPPort)
	}
	if c.SimulationRuns <= 0 {
		return fmt.Errorf("simulation runs must be positive, got %d", c.SimulationRuns)
	}
	if c.SimulationWorkers < 0 {
		return fmt.Errorf("simulation workers must not be negative, got %d", c.SimulationWorkers)
	}
	for region, zone := range c.ClimateZones {
		if zone != "tropical" && zone != "temperate" {
			return fmt.Errorf("climate zone for %q must be tropical or temperate, got %q", region, zone)
		}
	}
	return nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
