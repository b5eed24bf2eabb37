package main

import (
	"context"
	"fmt"
	"iter"
	"log"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/api/swagger"
	"github.com/noah-isme/course-enrollment-api/internal/client"
	"github.com/noah-isme/course-enrollment-api/internal/handler"
	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/internal/repository"
	"github.com/noah-isme/course-enrollment-api/internal/server"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	"github.com/noah-isme/course-enrollment-api/pkg/config"
	"github.com/noah-isme/course-enrollment-api/pkg/database"
	"github.com/noah-isme/course-enrollment-api/pkg/logger"
)

// @title Enrollments Service
// @version 1.0.0
// @description Enrollment registry backed by the students and courses services
// @BasePath /
// @schemes http

type enrollmentStore interface {
	Stream(ctx context.Context) iter.Seq2[models.Enrollment, error]
	FindByEnrollmentID(ctx context.Context, enrollmentID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("enrollments-service: %v", err)
	}
}

func run() error {
	cfg, err := config.Load("enrollments-service", 8081)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg, logr)
	if err != nil {
		logr.Error("failed to open enrollment store", zap.String("store", cfg.Enrollments.Store), zap.Error(err))
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logr.Warn("failed to close enrollment store", zap.Error(err))
		}
	}()

	metrics := service.NewMetricsService()
	students := client.NewStudentClient(cfg.Remote.StudentsBaseURL, cfg.Remote.Timeout, metrics)
	courses := client.NewCourseClient(cfg.Remote.CoursesBaseURL, cfg.Remote.Timeout, metrics)

	enrollmentSvc := service.NewEnrollmentService(store, students, courses, validator.New(), metrics, logr,
		service.EnrollmentServiceConfig{LookupTimeout: cfg.Enrollments.LookupTimeout})

	logr.Info("remote services configured",
		zap.String("students", cfg.Remote.StudentsBaseURL),
		zap.String("courses", cfg.Remote.CoursesBaseURL),
		zap.String("store", cfg.Enrollments.Store),
	)

	engine := server.NewEngine(server.Options{
		Config:       cfg,
		Logger:       logr,
		Metrics:      metrics,
		Store:        store,
		DocsInstance: swagger.EnrollmentsInstance,
		Resources:    []server.Registrar{handler.NewEnrollmentHandler(enrollmentSvc)},
	})

	if err := server.Run(ctx, cfg, engine, logr); err != nil {
		logr.Error("server failed", zap.Error(err))
		return err
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (enrollmentStore, func() error, error) {
	switch cfg.Enrollments.Store {
	case config.StoreRedis:
		rdb, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewEnrollmentRedisRepository(rdb, "")
		return repo, repo.Close, nil
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, db, database.EnrollmentsMigrations, logr); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}
		return repository.NewEnrollmentRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store %q", cfg.Enrollments.Store)
	}
}
