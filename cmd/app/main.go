package main

import (
	"os"
	"time"

	dbadapter "chirp/internal/adapters/database"
	"chirp/internal/adapters/directory"
	"chirp/internal/adapters/httpapi"
	"chirp/internal/adapters/httpapi/middleware"
	redisadapter "chirp/internal/adapters/redis"
	"chirp/internal/config"
	"chirp/internal/core/post"
	postapp "chirp/internal/core/post/service"
	profileapp "chirp/internal/core/profile/service"
	"chirp/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	config.InitLogger()
	config.Init()

	config.InitDB()
	if err := config.DB.AutoMigrate(&post.Post{}); err != nil {
		config.Logger.Fatal("Error during migrations", zap.Error(err))
	}
	config.Logger.Info("Database migrations completed")

	config.InitRedis()
	defer closeResources(config.Logger)

	postRepo := dbadapter.NewPostRepositoryDatabase()
	limiter := redisadapter.NewSlidingWindowLimiter(
		config.RedisClient,
		config.EnvInt("RATE_LIMIT_POSTS", 3),
		config.EnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	)
	dir := directory.NewClient(os.Getenv("USER_API_URL"), os.Getenv("USER_API_KEY"))

	postSvc := postapp.NewPostService(postRepo, limiter, dir)
	profileSvc := profileapp.NewProfileService(dir)

	edge := middleware.NewClientRateLimiter(
		rate.Limit(float64(config.EnvInt("HTTP_RATE_LIMIT", 120))/60.0),
		config.EnvInt("HTTP_RATE_BURST", 60),
	)
	defer edge.Stop()

	r := httpapi.SetupRoutes(postSvc, profileSvc, httpapi.RouterConfig{
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		Logger:      config.Logger,
		Metrics:     metrics.NewCollector(),
		EdgeLimiter: edge,
	})

	config.Logger.Info("App is running...")
	if err := r.Run(":" + config.EnvString("APP_PORT", "8080")); err != nil {
		config.Logger.Fatal("Server failed to start", zap.Error(err))
	}
}

// closeResources closes the Redis and database connections.
func closeResources(logger *zap.Logger) {
	if err := config.RedisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
