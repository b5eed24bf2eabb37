package client

import (
	"context"
	"time"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

// StudentClient looks up students in the students service.
type StudentClient struct {
	lookup lookup
}

// NewStudentClient builds a client for baseURL, e.g. http://localhost:7001/api/v1/students.
func NewStudentClient(baseURL string, timeout time.Duration, observer Observer) *StudentClient {
	return &StudentClient{lookup: newLookup("students", "StudentId", baseURL, timeout, observer)}
}

// FetchByID returns the student identified by studentID.
func (c *StudentClient) FetchByID(ctx context.Context, studentID string) (*models.RemoteStudent, error) {
	return fetch[models.RemoteStudent](ctx, c.lookup, studentID)
}
