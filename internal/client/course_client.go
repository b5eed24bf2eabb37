package client

import (
	"context"
	"time"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

// CourseClient looks up courses in the courses service.
type CourseClient struct {
	lookup lookup
}

// NewCourseClient builds a client for baseURL, e.g. http://localhost:8080/api/v1/courses.
func NewCourseClient(baseURL string, timeout time.Duration, observer Observer) *CourseClient {
	return &CourseClient{lookup: newLookup("courses", "CourseId", baseURL, timeout, observer)}
}

// FetchByID returns the course identified by courseID.
func (c *CourseClient) FetchByID(ctx context.Context, courseID string) (*models.RemoteCourse, error) {
	return fetch[models.RemoteCourse](ctx, c.lookup, courseID)
}
