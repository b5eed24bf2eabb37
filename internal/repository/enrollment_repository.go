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

const enrollmentColumns = `id, enrollment_id, enrollment_year, semester, student_id, student_first_name, student_last_name, course_id, course_number, course_name, created_at, updated_at`

// EnrollmentRepository persists enrollments in PostgreSQL.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Stream yields every stored enrollment in insertion order.
func (r *EnrollmentRepository) Stream(ctx context.Context) iter.Seq2[models.Enrollment, error] {
	return streamRows[models.Enrollment](ctx, r.db, "enrollments", `SELECT `+enrollmentColumns+` FROM enrollments ORDER BY created_at, id`)
}

// FindByEnrollmentID fetches an enrollment by its natural key.
func (r *EnrollmentRepository) FindByEnrollmentID(ctx context.Context, enrollmentID string) (*models.Enrollment, error) {
	const query = `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE enrollment_id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, enrollmentID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Create inserts an enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now

	const query = `INSERT INTO enrollments (` + enrollmentColumns + `) VALUES (:id, :enrollment_id, :enrollment_year, :semester, :student_id, :student_first_name, :student_last_name, :course_id, :course_number, :course_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of the enrollment with the same ID.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET enrollment_year = :enrollment_year, semester = :semester, student_id = :student_id, student_first_name = :student_first_name, student_last_name = :student_last_name, course_id = :course_id, course_number = :course_number, course_name = :course_name, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, enrollment)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return requireAffected(res, "update enrollment")
}

// Delete removes an enrollment by storage ID.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return requireAffected(res, "delete enrollment")
}

// Ping checks database connectivity.
func (r *EnrollmentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
