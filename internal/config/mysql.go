package config

import (
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB is the process-wide gorm handle; repositories in
// internal/adapters/database read it directly.
var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_DSN")
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		Logger.Fatal("Error connecting to the database", zap.Error(err))
	}
	Logger.Info("Database connected")
}
