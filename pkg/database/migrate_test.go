package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsPresent(t *testing.T) {
	for _, dir := range []string{CoursesMigrations, EnrollmentsMigrations} {
		entries, err := fs.ReadDir(migrationsFS, dir)
		require.NoError(t, err, dir)
		require.NotEmpty(t, entries, dir)

		for _, entry := range entries {
			raw, err := fs.ReadFile(migrationsFS, dir+"/"+entry.Name())
			require.NoError(t, err)
			body := string(raw)
			assert.True(t, strings.HasSuffix(entry.Name(), ".sql"), entry.Name())
			assert.Contains(t, body, "-- +goose Up")
			assert.Contains(t, body, "-- +goose Down")
		}
	}
}

func TestMigrationTablePerService(t *testing.T) {
	assert.Equal(t, "courses_schema_migrations", MigrationTable(CoursesMigrations))
	assert.Equal(t, "enrollments_schema_migrations", MigrationTable(EnrollmentsMigrations))
	assert.NotEqual(t, MigrationTable(CoursesMigrations), MigrationTable(EnrollmentsMigrations))
}
