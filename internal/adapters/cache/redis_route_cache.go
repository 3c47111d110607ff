package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const routeKeyPrefix = "route:plan:"

// RedisRouteCache stores planned routes as JSON under a request fingerprint.
type RedisRouteCache struct {
	Client *redis.Client
}

func NewRedisRouteCache(client *redis.Client) *RedisRouteCache {
	return &RedisRouteCache{Client: client}
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisRouteCache) GetRoute(ctx context.Context, key string) (_ *domain.OptimizedRoute, err error) {
	defer obs.Time(ctx, "route.cache.GetRoute")(&err)

	if r.Client == nil {
		return nil, errors.New("route cache: client is nil")
	}

	b, err := r.Client.Get(ctx, routeKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached route: %w", err)
	}

	var route domain.OptimizedRoute
	if err := json.Unmarshal(b, &route); err != nil {
		return nil, fmt.Errorf("decode cached route: %w", err)
	}
	return &route, nil
}

func (r *RedisRouteCache) PutRoute(
	ctx context.Context,
	key string,
	route *domain.OptimizedRoute,
	ttl time.Duration,
) (err error) {
	defer obs.Time(ctx, "route.cache.PutRoute")(&err)

	if r.Client == nil {
		return errors.New("route cache: client is nil")
	}
	if route == nil {
		return errors.New("put cached route: route is nil")
	}

	b, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("encode route %s: %w", route.ID, err)
	}

	if err := r.Client.Set(ctx, routeKeyPrefix+key, b, ttl).Err(); err != nil {
		return fmt.Errorf("put cached route %s: %w", route.ID, err)
	}
	return nil
}
