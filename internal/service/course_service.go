package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/dto"
	"github.com/noah-isme/course-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
)

type courseRepository interface {
	Stream(ctx context.Context) iter.Seq2[models.Course, error]
	FindByCourseID(ctx context.Context, courseID string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CourseService handles course use-cases.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, metrics: metrics, logger: logger}
}

// List streams every stored course.
func (s *CourseService) List(ctx context.Context) iter.Seq2[dto.CourseResponse, error] {
	return func(yield func(dto.CourseResponse, error) bool) {
		start := time.Now()
		defer func() { s.metrics.ObserveDBQuery("courses_list", time.Since(start)) }()

		for course, err := range s.repo.Stream(ctx) {
			if err != nil {
				yield(dto.CourseResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses"))
				return
			}
			if !yield(dto.NewCourseResponse(course), nil) {
				return
			}
		}
	}
}

// Get returns a course by its natural key.
func (s *CourseService) Get(ctx context.Context, courseID string) (*dto.CourseResponse, error) {
	course, err := s.find(ctx, courseID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCourseResponse(*course)
	return &resp, nil
}

// Create registers a new course under a generated natural key.
func (s *CourseService) Create(ctx context.Context, req dto.CourseRequest) (*dto.CourseResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{
		CourseID:     uuid.NewString(),
		CourseNumber: req.CourseNumber,
		CourseName:   req.CourseName,
		NumHours:     req.NumHours,
		NumCredits:   req.NumCredits,
		Department:   req.Department,
	}

	start := time.Now()
	err := s.repo.Create(ctx, course)
	s.metrics.ObserveDBQuery("courses_create", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.String("course_id", course.CourseID))
	resp := dto.NewCourseResponse(*course)
	return &resp, nil
}

// Update replaces the mutable fields of a course, keeping its identifiers.
func (s *CourseService) Update(ctx context.Context, courseID string, req dto.CourseRequest) (*dto.CourseResponse, error) {
	existing, err := s.find(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	existing.CourseNumber = req.CourseNumber
	existing.CourseName = req.CourseName
	existing.NumHours = req.NumHours
	existing.NumCredits = req.NumCredits
	existing.Department = req.Department

	start := time.Now()
	err = s.repo.Update(ctx, existing)
	s.metrics.ObserveDBQuery("courses_update", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, courseNotFound(courseID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	resp := dto.NewCourseResponse(*existing)
	return &resp, nil
}

// Delete removes a course and returns its last stored state.
func (s *CourseService) Delete(ctx context.Context, courseID string) (*dto.CourseResponse, error) {
	existing, err := s.find(ctx, courseID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	err = s.repo.Delete(ctx, existing.ID)
	s.metrics.ObserveDBQuery("courses_delete", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, courseNotFound(courseID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.String("course_id", courseID))
	resp := dto.NewCourseResponse(*existing)
	return &resp, nil
}

func (s *CourseService) find(ctx context.Context, courseID string) (*models.Course, error) {
	start := time.Now()
	course, err := s.repo.FindByCourseID(ctx, courseID)
	s.metrics.ObserveDBQuery("courses_find", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, courseNotFound(courseID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	s.logger.Debug("course found", zap.String("course_id", courseID))
	return course, nil
}

func courseNotFound(courseID string) error {
	return appErrors.NotFound(fmt.Sprintf("Course id not found: %s", courseID))
}
