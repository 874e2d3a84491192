package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // Register file source driver
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/orientame/onboarding-api/pkg/logger"
	"go.uber.org/zap"
)

// RunMigrations applies every pending migration found at migrationsPath
// (e.g. "file://migrations"). An up-to-date schema is not an error.
func RunMigrations(databaseURL, migrationsPath string) error {
	connConfig, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	tlsConfig, err := configureTLS(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to configure TLS: %w", err)
	}
	if tlsConfig != nil {
		connConfig.TLSConfig = tlsConfig
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	defer sqlDB.Close()

	if pingErr := sqlDB.Ping(); pingErr != nil {
		return fmt.Errorf("failed to ping database: %w", pingErr)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if version, dirty, verErr := m.Version(); verErr == nil {
		logger.Info("Database migrated",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty))
	}

	return nil
}
