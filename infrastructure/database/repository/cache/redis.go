package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	redisClient "presenza.io/infrastructure/database/connection/cache"
	"presenza.io/infrastructure/logger"
)

var Cache = &RedisRepository{}

type RedisRepository struct {
	Client *redis.Client
}

func (redisRepo *RedisRepository) preRequest() {
	if redisRepo.Client == nil {
		redisRepo.Client = redisClient.Client
		logger.Info("redis repository initialisation complete")
	}
}

func (redisRepo *RedisRepository) CreateEntry(key string, payload interface{}, ttl time.Duration) bool {
	redisRepo.preRequest()
	ctx := context.Background()
	_, err := redisRepo.Client.Set(ctx, key, payload, ttl).Result()
	if err != nil {
		logger.Error("redis error occured while running CreateEntry", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return false
	}
	return true
}

func (redisRepo *RedisRepository) FindOne(key string) *string {
	redisRepo.preRequest()
	ctx := context.Background()

	result, err := redisRepo.Client.Get(ctx, key).Result()
	if err != nil {
		if err.Error() == "redis: nil" {
			return nil
		}
		logger.Error("redis error occured while running FindOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return nil
	}
	return &result
}

func (redisRepo *RedisRepository) DeleteOne(key string) bool {
	redisRepo.preRequest()
	ctx := context.Background()

	result, err := redisRepo.Client.Del(ctx, key).Result()
	if err != nil {
		logger.Error("redis error occured while running DeleteOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return false
	}
	return int(result) == 1
}

// DeleteByPattern removes every key matching the glob pattern, scanning in
// batches so large namespaces do not block redis.
func (redisRepo *RedisRepository) DeleteByPattern(pattern string) int64 {
	redisRepo.preRequest()
	ctx := context.Background()

	var deleted int64
	iter := redisRepo.Client.Scan(ctx, 0, pattern, 500).Iterator()
	for iter.Next(ctx) {
		if redisRepo.Client.Del(ctx, iter.Val()).Val() == 1 {
			deleted++
		}
	}
	if err := iter.Err(); err != nil {
		logger.Error("redis error occured while running DeleteByPattern", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "pattern",
			Data: pattern,
		})
	}
	return deleted
}

// IncrementWithTTL bumps a counter, setting the TTL when the counter is
// created. Used for verification attempt rate limiting.
func (redisRepo *RedisRepository) IncrementWithTTL(key string, ttl time.Duration) int64 {
	redisRepo.preRequest()
	ctx := context.Background()

	result := redisRepo.Client.Incr(ctx, key)
	if err := result.Err(); err != nil {
		logger.Error("redis error occured while running IncrementWithTTL", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return 0
	}
	if result.Val() == 1 && ttl > 0 {
		redisRepo.Client.Expire(ctx, key, ttl)
	}
	return result.Val()
}
