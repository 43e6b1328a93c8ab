package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"crop_service/internal/domain/model"
)

// ErrCacheMiss is returned by a Cache when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return v, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// CachedProvider is a read-through cache in front of a WeatherProvider.
// Cache failures are logged and bypassed.
type CachedProvider struct {
	next   model.WeatherProvider
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedProvider(next model.WeatherProvider, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(region string) string {
	return "weather:" + model.NormalizeRegion(region)
}

func (p *CachedProvider) GetWeather(ctx context.Context, region string) (model.WeatherSample, error) {
	key := cacheKey(region)

	raw, err := p.cache.Get(ctx, key)
	switch {
	case err == nil:
		var sample model.WeatherSample
		if jsonErr := json.Unmarshal([]byte(raw), &sample); jsonErr == nil {
			return sample, nil
		}
		p.logger.WarnContext(ctx, "discarding corrupt weather cache entry", "module", "weather.cache", "key", key)
	case !errors.Is(err, ErrCacheMiss):
		p.logger.WarnContext(ctx, "weather cache read failed", "module", "weather.cache", "key", key, "error", err.Error())
	}

	sample, err := p.next.GetWeather(ctx, region)
	if err != nil {
		return model.WeatherSample{}, err
	}

	if payload, jsonErr := json.Marshal(sample); jsonErr == nil {
		if setErr := p.cache.Set(ctx, key, string(payload), p.ttl); setErr != nil {
			p.logger.WarnContext(ctx, "weather cache write failed", "module", "weather.cache", "key", key, "error", setErr.Error())
		}
	}
	return sample, nil
}
