package service

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/dto"
	"github.com/noah-isme/course-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
)

type mockCourseRepo struct {
	courses   []models.Course
	streamErr error
	createErr error
	deleted   []string
}

func (m *mockCourseRepo) Stream(ctx context.Context) iter.Seq2[models.Course, error] {
	return func(yield func(models.Course, error) bool) {
		for _, c := range m.courses {
			if !yield(c, nil) {
				return
			}
		}
		if m.streamErr != nil {
			yield(models.Course{}, m.streamErr)
		}
	}
}

func (m *mockCourseRepo) FindByCourseID(ctx context.Context, courseID string) (*models.Course, error) {
	for _, c := range m.courses {
		if c.CourseID == courseID {
			found := c
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	course.ID = "row-new"
	m.courses = append(m.courses, *course)
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	for i, c := range m.courses {
		if c.ID == course.ID {
			m.courses[i] = *course
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	for i, c := range m.courses {
		if c.ID == id {
			m.courses = append(m.courses[:i], m.courses[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

const webServicesCourseID = "9a29fff7-564a-4cc9-8fe1-36f6ca9bc223"

func newCourseServiceWithData() (*CourseService, *mockCourseRepo) {
	repo := &mockCourseRepo{courses: []models.Course{
		{ID: "row-1", CourseID: webServicesCourseID, CourseNumber: "N45-LA", CourseName: "Web Services", NumHours: 60, NumCredits: 2, Department: "Computer Science"},
	}}
	return NewCourseService(repo, nil, nil, zap.NewNop()), repo
}

func TestCourseServiceGet(t *testing.T) {
	svc, _ := newCourseServiceWithData()

	course, err := svc.Get(context.Background(), webServicesCourseID)
	require.NoError(t, err)
	assert.Equal(t, "Web Services", course.CourseName)

	_, err = svc.Get(context.Background(), "11111111-1111-1111-1111-111111111111")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Course id not found: 11111111-1111-1111-1111-111111111111", appErr.Message)
}

func TestCourseServiceCreateGeneratesNaturalKey(t *testing.T) {
	svc, repo := newCourseServiceWithData()

	resp, err := svc.Create(context.Background(), dto.CourseRequest{CourseNumber: "cat-420", CourseName: "Waves", NumHours: 45, NumCredits: 3, Department: "Physics"})
	require.NoError(t, err)
	assert.Len(t, resp.CourseID, 36)
	assert.Len(t, repo.courses, 2)
}

func TestCourseServiceCreateValidation(t *testing.T) {
	svc, repo := newCourseServiceWithData()

	_, err := svc.Create(context.Background(), dto.CourseRequest{CourseName: "Waves"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Len(t, repo.courses, 1)
}

func TestCourseServiceCreateStoreFailure(t *testing.T) {
	repo := &mockCourseRepo{createErr: errors.New("db down")}
	svc := NewCourseService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CourseRequest{CourseNumber: "cat-420", CourseName: "Waves"})
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}

func TestCourseServiceUpdatePreservesIdentifiers(t *testing.T) {
	svc, repo := newCourseServiceWithData()

	resp, err := svc.Update(context.Background(), webServicesCourseID, dto.CourseRequest{CourseNumber: "N45-LB", CourseName: "Web Services II", NumHours: 30, NumCredits: 1.5})
	require.NoError(t, err)
	assert.Equal(t, webServicesCourseID, resp.CourseID)
	assert.Equal(t, "row-1", repo.courses[0].ID)
	assert.Equal(t, "Web Services II", repo.courses[0].CourseName)
}

func TestCourseServiceUpdateMissing(t *testing.T) {
	svc, _ := newCourseServiceWithData()

	_, err := svc.Update(context.Background(), "missing", dto.CourseRequest{CourseNumber: "x", CourseName: "y"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestCourseServiceUpdateMissingWithInvalidBody(t *testing.T) {
	svc, _ := newCourseServiceWithData()

	_, err := svc.Update(context.Background(), "11111111-1111-1111-1111-111111111111", dto.CourseRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Course id not found: 11111111-1111-1111-1111-111111111111", appErr.Message)
}

func TestCourseServiceUpdateInvalidBody(t *testing.T) {
	svc, repo := newCourseServiceWithData()

	_, err := svc.Update(context.Background(), webServicesCourseID, dto.CourseRequest{CourseName: "Waves"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Equal(t, "Web Services", repo.courses[0].CourseName)
}

func TestCourseServiceDeleteReturnsSnapshot(t *testing.T) {
	svc, repo := newCourseServiceWithData()

	resp, err := svc.Delete(context.Background(), webServicesCourseID)
	require.NoError(t, err)
	assert.Equal(t, "N45-LA", resp.CourseNumber)
	assert.Equal(t, []string{"row-1"}, repo.deleted)
	assert.Empty(t, repo.courses)

	_, err = svc.Delete(context.Background(), webServicesCourseID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestCourseServiceList(t *testing.T) {
	svc, repo := newCourseServiceWithData()
	repo.streamErr = errors.New("connection reset")

	var names []string
	var lastErr error
	for course, err := range svc.List(context.Background()) {
		if err != nil {
			lastErr = err
			break
		}
		names = append(names, course.CourseName)
	}
	assert.Equal(t, []string{"Web Services"}, names)
	require.Error(t, lastErr)
	assert.Equal(t, "INTERNAL_ERROR", appErrors.FromError(lastErr).Code)
}
