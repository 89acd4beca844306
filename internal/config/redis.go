package config

import (
	"context"
	"os"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient backs the sliding-window rate limiter.
var RedisClient *redis.Client

func InitRedis() {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       EnvInt("REDIS_DB", 0),
	})

	if err := RedisClient.Ping(context.Background()).Err(); err != nil {
		Logger.Fatal("Error connecting to Redis", zap.Error(err))
	}
	Logger.Info("Connected to Redis")
}
