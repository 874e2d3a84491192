package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../migrations"

// TestMigrationFilesExist verifies that migration files are present
func TestMigrationFilesExist(t *testing.T) {
	_, err := os.Stat(migrationsDir)
	require.NoError(t, err, "migrations directory does not exist")

	for _, filename := range []string{
		"000001_initial_schema.up.sql",
		"000001_initial_schema.down.sql",
	} {
		_, err := os.Stat(filepath.Join(migrationsDir, filename))
		assert.NoError(t, err, "migration file does not exist: %s", filename)
	}
}

// TestMigrationFilesParseable verifies that migration files contain the
// expected statements
func TestMigrationFilesParseable(t *testing.T) {
	up, err := os.ReadFile(filepath.Join(migrationsDir, "000001_initial_schema.up.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS executives")
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS counselors")
	// counselor ids are timestamps, unique only per executive
	assert.Contains(t, string(up), "PRIMARY KEY (executive_id, id)")
	assert.NotContains(t, string(up), "id            VARCHAR(32) PRIMARY KEY")

	down, err := os.ReadFile(filepath.Join(migrationsDir, "000001_initial_schema.down.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(down), "DROP TABLE")
}

// TestMigrationFilesPaired verifies every up migration has a down migration
func TestMigrationFilesPaired(t *testing.T) {
	entries, err := os.ReadDir(migrationsDir)
	require.NoError(t, err)

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		down := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
		_, err := os.Stat(filepath.Join(migrationsDir, down))
		assert.NoError(t, err, "missing down migration for %s", name)
	}
}
