package repository

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

const courseColumns = `id, course_id, course_number, course_name, num_hours, num_credits, department, created_at, updated_at`

// CourseRepository handles persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new repository instance.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Stream yields every course in insertion order.
func (r *CourseRepository) Stream(ctx context.Context) iter.Seq2[models.Course, error] {
	return streamRows[models.Course](ctx, r.db, "courses", `SELECT `+courseColumns+` FROM courses ORDER BY created_at, id`)
}

// FindByCourseID returns a course by its natural key.
func (r *CourseRepository) FindByCourseID(ctx context.Context, courseID string) (*models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE course_id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, courseID); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (` + courseColumns + `) VALUES (:id, :course_id, :course_number, :course_name, :num_hours, :num_credits, :department, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of the course with the same ID.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET course_number = :course_number, course_name = :course_name, num_hours = :num_hours, num_credits = :num_credits, department = :department, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return requireAffected(res, "update course")
}

// Delete removes a course record.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireAffected(res, "delete course")
}

// Ping checks database connectivity.
func (r *CourseRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
