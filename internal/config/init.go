package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"go.uber.org/zap"
)

// Init loads .env and fails fast on missing required configuration. The
// identity provider, the post store and the rate-limiter cache are all
// external collaborators, so all of them must be addressable at startup.
func Init() {
	if err := godotenv.Load(); err != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	required := []string{
		"DB_DSN",
		"REDIS_ADDR",
		"JWT_SECRET",
		"USER_API_URL",
		"USER_API_KEY",
	}

	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		Logger.Fatal("required environment variables are not set", zap.Strings("missing", missing))
	}
}

func EnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func EnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func EnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
