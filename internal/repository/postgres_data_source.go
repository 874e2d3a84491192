package repository

import (
	"github.com/orientame/onboarding-api/internal/database/postgres"
)

// NewPostgresDataSource returns the PostgreSQL backed data source
func NewPostgresDataSource(client *postgres.Client) DataSource {
	return client
}

var _ DataSource = (*postgres.Client)(nil)
