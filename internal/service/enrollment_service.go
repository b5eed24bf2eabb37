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
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/course-enrollment-api/internal/dto"
	"github.com/noah-isme/course-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
)

const defaultLookupTimeout = 10 * time.Second

type enrollmentRepository interface {
	Stream(ctx context.Context) iter.Seq2[models.Enrollment, error]
	FindByEnrollmentID(ctx context.Context, enrollmentID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
}

type studentLookup interface {
	FetchByID(ctx context.Context, studentID string) (*models.RemoteStudent, error)
}

type courseLookup interface {
	FetchByID(ctx context.Context, courseID string) (*models.RemoteCourse, error)
}

// EnrollmentServiceConfig bounds the remote lookup phase of a write.
type EnrollmentServiceConfig struct {
	LookupTimeout time.Duration
}

// enrollmentContext accumulates the inputs of a single add or update. It is
// passed by value and each stage returns an extended copy.
type enrollmentContext struct {
	request  dto.EnrollmentRequest
	existing *models.Enrollment
	student  *models.RemoteStudent
	course   *models.RemoteCourse
}

// EnrollmentService orchestrates enrollment writes against the students and
// courses services and serves reads from the local store.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  studentLookup
	courses   courseLookup
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       EnrollmentServiceConfig
}

// NewEnrollmentService wires the orchestrator.
func NewEnrollmentService(repo enrollmentRepository, students studentLookup, courses courseLookup, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg EnrollmentServiceConfig) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = defaultLookupTimeout
	}
	svc := &EnrollmentService{
		repo:      repo,
		students:  students,
		courses:   courses,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
	svc.validator.RegisterValidation("semester", func(fl validator.FieldLevel) bool {
		return models.Semester(fl.Field().String()).Valid()
	})
	return svc
}

// List streams the stored enrollments. Student and course fields are the
// values captured when each enrollment was last written.
func (s *EnrollmentService) List(ctx context.Context) iter.Seq2[dto.EnrollmentResponse, error] {
	return func(yield func(dto.EnrollmentResponse, error) bool) {
		start := time.Now()
		defer func() { s.metrics.ObserveDBQuery("enrollments_list", time.Since(start)) }()

		for enrollment, err := range s.repo.Stream(ctx) {
			if err != nil {
				yield(dto.EnrollmentResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments"))
				return
			}
			if !yield(dto.NewEnrollmentResponse(enrollment), nil) {
				return
			}
		}
	}
}

// Get returns an enrollment by its natural key.
func (s *EnrollmentService) Get(ctx context.Context, enrollmentID string) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.find(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewEnrollmentResponse(*enrollment)
	return &resp, nil
}

// Add validates the request, resolves the referenced student and course, and
// stores the new enrollment. Nothing is stored unless both lookups succeed.
func (s *EnrollmentService) Add(ctx context.Context, req dto.EnrollmentRequest) (resp *dto.EnrollmentResponse, err error) {
	defer func() { s.metrics.RecordEnrollmentWrite("add", err) }()

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	ec, err := s.resolve(ctx, enrollmentContext{request: req})
	if err != nil {
		return nil, err
	}
	enrollment := assemble(ec)

	start := time.Now()
	err = s.repo.Create(ctx, &enrollment)
	s.metrics.ObserveDBQuery("enrollments_create", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.logger.Info("enrollment created",
		zap.String("enrollment_id", enrollment.EnrollmentID),
		zap.String("student_id", enrollment.StudentID),
		zap.String("course_id", enrollment.CourseID),
	)
	out := dto.NewEnrollmentResponse(enrollment)
	return &out, nil
}

// Update re-resolves the referenced student and course and overwrites the
// enrollment, keeping its storage ID and natural key. A missing enrollment is
// reported before the payload is validated.
func (s *EnrollmentService) Update(ctx context.Context, enrollmentID string, req dto.EnrollmentRequest) (resp *dto.EnrollmentResponse, err error) {
	defer func() { s.metrics.RecordEnrollmentWrite("update", err) }()

	existing, err := s.find(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	ec, err := s.resolve(ctx, enrollmentContext{request: req, existing: existing})
	if err != nil {
		return nil, err
	}
	enrollment := assemble(ec)

	start := time.Now()
	err = s.repo.Update(ctx, &enrollment)
	s.metrics.ObserveDBQuery("enrollments_update", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, enrollmentNotFound(enrollmentID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}

	s.logger.Info("enrollment updated", zap.String("enrollment_id", enrollment.EnrollmentID))
	out := dto.NewEnrollmentResponse(enrollment)
	return &out, nil
}

// Delete removes an enrollment and returns its last stored state.
func (s *EnrollmentService) Delete(ctx context.Context, enrollmentID string) (*dto.EnrollmentResponse, error) {
	existing, err := s.find(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	err = s.repo.Delete(ctx, existing.ID)
	s.metrics.ObserveDBQuery("enrollments_delete", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, enrollmentNotFound(enrollmentID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}

	s.logger.Info("enrollment deleted", zap.String("enrollment_id", enrollmentID))
	resp := dto.NewEnrollmentResponse(*existing)
	return &resp, nil
}

func (s *EnrollmentService) find(ctx context.Context, enrollmentID string) (*models.Enrollment, error) {
	start := time.Now()
	enrollment, err := s.repo.FindByEnrollmentID(ctx, enrollmentID)
	s.metrics.ObserveDBQuery("enrollments_find", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, enrollmentNotFound(enrollmentID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	s.logger.Debug("enrollment found", zap.String("enrollment_id", enrollmentID))
	return enrollment, nil
}

// resolve fetches the student and course concurrently. The first failure
// cancels the other lookup.
func (s *EnrollmentService) resolve(ctx context.Context, ec enrollmentContext) (enrollmentContext, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()

	var (
		student *models.RemoteStudent
		course  *models.RemoteCourse
	)
	g, gctx := errgroup.WithContext(lookupCtx)
	g.Go(func() error {
		found, err := s.students.FetchByID(gctx, ec.request.StudentID)
		if err != nil {
			return appErrors.NewUpstreamFailure("student", ec.request.StudentID, err)
		}
		student = found
		return nil
	})
	g.Go(func() error {
		found, err := s.courses.FetchByID(gctx, ec.request.CourseID)
		if err != nil {
			return appErrors.NewUpstreamFailure("course", ec.request.CourseID, err)
		}
		course = found
		return nil
	})

	if err := g.Wait(); err != nil {
		var failure *appErrors.UpstreamFailure
		if errors.As(err, &failure) {
			s.logger.Warn("enrollment lookup failed",
				zap.String("resource", failure.Resource),
				zap.String("key", failure.Key),
				zap.Error(failure.Err),
			)
		}
		return ec, err
	}

	ec.student = student
	ec.course = course
	return ec, nil
}

// assemble builds the enrollment record from a fully resolved context. Adds
// receive a fresh natural key; updates keep the stored identifiers.
func assemble(ec enrollmentContext) models.Enrollment {
	enrollment := models.Enrollment{
		EnrollmentID:     uuid.NewString(),
		EnrollmentYear:   ec.request.EnrollmentYear,
		Semester:         ec.request.Semester,
		StudentID:        ec.student.StudentID,
		StudentFirstName: ec.student.FirstName,
		StudentLastName:  ec.student.LastName,
		CourseID:         ec.course.CourseID,
		CourseNumber:     ec.course.CourseNumber,
		CourseName:       ec.course.CourseName,
	}
	if ec.existing != nil {
		enrollment.ID = ec.existing.ID
		enrollment.EnrollmentID = ec.existing.EnrollmentID
		enrollment.CreatedAt = ec.existing.CreatedAt
	}
	return enrollment
}

func enrollmentNotFound(enrollmentID string) error {
	return appErrors.NotFound(fmt.Sprintf("Enrollment id not found: %s", enrollmentID))
}
