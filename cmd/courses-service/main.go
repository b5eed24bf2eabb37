package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/api/swagger"
	"github.com/noah-isme/course-enrollment-api/internal/handler"
	"github.com/noah-isme/course-enrollment-api/internal/repository"
	"github.com/noah-isme/course-enrollment-api/internal/server"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	"github.com/noah-isme/course-enrollment-api/pkg/config"
	"github.com/noah-isme/course-enrollment-api/pkg/database"
	"github.com/noah-isme/course-enrollment-api/pkg/logger"
)

// @title Courses Service
// @version 1.0.0
// @description Course registry
// @BasePath /
// @schemes http

func main() {
	if err := run(); err != nil {
		log.Fatalf("courses-service: %v", err)
	}
}

func run() error {
	cfg, err := config.Load("courses-service", 8080)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Error("failed to connect database", zap.Error(err))
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, database.CoursesMigrations, logr); err != nil {
			logr.Error("failed to run migrations", zap.Error(err))
			return err
		}
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	courseSvc := service.NewCourseService(courseRepo, validate, metrics, logr)

	engine := server.NewEngine(server.Options{
		Config:       cfg,
		Logger:       logr,
		Metrics:      metrics,
		Store:        courseRepo,
		DocsInstance: swagger.CoursesInstance,
		Resources:    []server.Registrar{handler.NewCourseHandler(courseSvc)},
	})

	if err := server.Run(ctx, cfg, engine, logr); err != nil {
		logr.Error("server failed", zap.Error(err))
		return err
	}
	return nil
}
