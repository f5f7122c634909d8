package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/service"
)

const (
	redisCurrentKey      = "plans:current"
	redisHistoryIndexKey = "plans:history"
	redisHistoryPrefix   = "plans:history:"
)

// RedisPlanStore хранит планы в Redis: текущий план, записи истории и индекс истории (sorted set)
type RedisPlanStore struct {
	redisClient *redis.Client
	now         func() time.Time
}

func NewRedisPlanStore(redisClient *redis.Client) service.PlanStore {
	return &RedisPlanStore{
		redisClient: redisClient,
		now:         time.Now,
	}
}

// Persist записывает текущий план и запись истории; индекс обновляется вместе с историей
func (r *RedisPlanStore) Persist(ctx context.Context, record models.EnrichedRecord) (string, error) {
	data, err := encodeRecord(record)
	if err != nil {
		return "", err
	}
	now := r.now()
	key := historyKey(now)

	err = persistBoth(
		func() error {
			if err := r.redisClient.Set(ctx, redisCurrentKey, data, 0).Err(); err != nil {
				return fmt.Errorf("failed to set current plan in Redis: %w", err)
			}
			return nil
		},
		func() error {
			pipe := r.redisClient.TxPipeline()
			pipe.Set(ctx, redisHistoryPrefix+key, data, 0)
			pipe.ZAdd(ctx, redisHistoryIndexKey, redis.Z{Score: float64(now.Unix()), Member: key})
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to write plan history to Redis: %w", err)
			}
			return nil
		},
	)
	return key, err
}

// Current возвращает текущий план
func (r *RedisPlanStore) Current(ctx context.Context) ([]byte, error) {
	return r.get(ctx, redisCurrentKey)
}

// History возвращает запись истории по ключу
func (r *RedisPlanStore) History(ctx context.Context, key string) ([]byte, error) {
	return r.get(ctx, redisHistoryPrefix+key)
}

// ListHistory возвращает ключи истории, начиная с самого нового
func (r *RedisPlanStore) ListHistory(ctx context.Context, limit int) ([]string, error) {
	keys, err := r.redisClient.ZRevRange(ctx, redisHistoryIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list plan history from Redis: %w", err)
	}
	return keys, nil
}

func (r *RedisPlanStore) get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, service.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}
	return val, nil
}
