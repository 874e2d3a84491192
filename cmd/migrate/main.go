package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/orientame/onboarding-api/config"
	"github.com/orientame/onboarding-api/pkg/db"
	"github.com/orientame/onboarding-api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: "onboarding-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Database.WorkOffline {
		logger.Info("DB_WORK_OFFLINE is set, nothing to migrate")
		return
	}

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)))

	if err := db.RunMigrations(cfg.Database.URL, "file://migrations"); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL hides credentials in a database URL for logging
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
