package database

import (
	"context"
	"embed"
	"fmt"
	"path"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// migrationTableSuffix is appended to the migration set name so services
// sharing a database keep separate version histories.
const migrationTableSuffix = "_schema_migrations"

// Migration sets shipped with the binaries.
const (
	CoursesMigrations     = "migrations/courses"
	EnrollmentsMigrations = "migrations/enrollments"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every pending migration found under dir.
func Migrate(ctx context.Context, db *sqlx.DB, dir string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(MigrationTable(dir))
	goose.SetLogger(zapGooseLogger{sugar: logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	start := time.Now()
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("apply migrations %s: %w", dir, err)
	}

	version, err := goose.GetDBVersionContext(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("migrations applied",
		zap.String("dir", dir),
		zap.String("table", MigrationTable(dir)),
		zap.Int64("version", version),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// MigrationTable names the version table for the migration set under dir.
func MigrationTable(dir string) string {
	return path.Base(dir) + migrationTableSuffix
}

type zapGooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l zapGooseLogger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l zapGooseLogger) Fatalf(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}
