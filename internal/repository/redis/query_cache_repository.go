package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

const keyPrefix = "parkgate:query"

type redisQueryCache struct {
	cli *redis.Client
	ttl time.Duration
	l   logger.Logger
}

func NewRedisQueryCache(cli *redis.Client, ttl time.Duration, l logger.Logger) QueryCache {
	return &redisQueryCache{
		cli: cli,
		ttl: ttl,
		l:   l,
	}
}

func (r *redisQueryCache) GetGates(ctx context.Context) ([]models.Gate, bool, error) {
	var gates []models.Gate
	ok, err := r.get(ctx, gatesKey(), &gates)
	if err != nil {
		r.l.Errorf(ctx, "redisQueryCache.GetGates: %v", err)
		return nil, false, err
	}
	return gates, ok, nil
}

func (r *redisQueryCache) SetGates(ctx context.Context, gates []models.Gate) error {
	if err := r.set(ctx, gatesKey(), gates); err != nil {
		r.l.Errorf(ctx, "redisQueryCache.SetGates: %v", err)
		return err
	}
	return nil
}

func (r *redisQueryCache) GetZones(ctx context.Context, gateID string) ([]models.Zone, bool, error) {
	var zones []models.Zone
	ok, err := r.get(ctx, zonesKey(gateID), &zones)
	if err != nil {
		r.l.Errorf(ctx, "redisQueryCache.GetZones: %v", err)
		return nil, false, err
	}
	return zones, ok, nil
}

func (r *redisQueryCache) SetZones(ctx context.Context, gateID string, zones []models.Zone) error {
	if err := r.set(ctx, zonesKey(gateID), zones); err != nil {
		r.l.Errorf(ctx, "redisQueryCache.SetZones: %v", err)
		return err
	}
	return nil
}

func (r *redisQueryCache) InvalidateZones(ctx context.Context, gateID string) error {
	if err := r.cli.Del(ctx, zonesKey(gateID)).Err(); err != nil {
		r.l.Errorf(ctx, "redisQueryCache.InvalidateZones: %v", err)
		return err
	}
	return nil
}

func (r *redisQueryCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.cli.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (r *redisQueryCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return r.cli.Set(ctx, key, data, r.ttl).Err()
}

func gatesKey() string {
	return keyPrefix + ":gates"
}

func zonesKey(gateID string) string {
	return fmt.Sprintf("%s:zones:%s", keyPrefix, gateID)
}
