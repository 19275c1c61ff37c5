package cache

import (
	"os"

	"presenza.io/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
)

func ConnectToCache() {
	connectRedis()
}

func connectRedis() {
	opt := &redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
		PoolSize: 10,
	}
	Client = redis.NewClient(opt)
	logger.Info("connected to redis successfully")
}
