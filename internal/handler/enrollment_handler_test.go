package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/client"
	"github.com/noah-isme/course-enrollment-api/internal/dto"
	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/middleware/requestid"
	"github.com/noah-isme/course-enrollment-api/pkg/response"
)

const donnaStudentID = "c3540a89-cb47-4c96-888e-ff96708db4d8"

type enrollmentServiceMock struct {
	resp      *dto.EnrollmentResponse
	err       error
	lastID    string
	callCount int
}

func (m *enrollmentServiceMock) List(ctx context.Context) iter.Seq2[dto.EnrollmentResponse, error] {
	m.callCount++
	return func(yield func(dto.EnrollmentResponse, error) bool) {
		if m.resp != nil {
			yield(*m.resp, nil)
		}
	}
}

func (m *enrollmentServiceMock) Get(ctx context.Context, enrollmentID string) (*dto.EnrollmentResponse, error) {
	m.callCount++
	m.lastID = enrollmentID
	return m.resp, m.err
}

func (m *enrollmentServiceMock) Add(ctx context.Context, req dto.EnrollmentRequest) (*dto.EnrollmentResponse, error) {
	m.callCount++
	return m.resp, m.err
}

func (m *enrollmentServiceMock) Update(ctx context.Context, enrollmentID string, req dto.EnrollmentRequest) (*dto.EnrollmentResponse, error) {
	m.callCount++
	m.lastID = enrollmentID
	return m.resp, m.err
}

func (m *enrollmentServiceMock) Delete(ctx context.Context, enrollmentID string) (*dto.EnrollmentResponse, error) {
	m.callCount++
	m.lastID = enrollmentID
	return m.resp, m.err
}

func newEnrollmentRouter(svc enrollmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestid.Middleware())
	NewEnrollmentHandler(svc).Register(r.Group("/api/v1"))
	return r
}

func TestEnrollmentHandlerRejectsMalformedID(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			svc := &enrollmentServiceMock{}
			r := newEnrollmentRouter(svc)

			id := strings.Repeat("a", 37)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(method, "/api/v1/enrollments/"+id, bytes.NewBufferString(`{}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			var body response.ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Invalid enrollment id: "+id, body.Message)
			assert.Equal(t, "INVALID_INPUT", body.Code)
			assert.Zero(t, svc.callCount)
		})
	}
}

func TestEnrollmentHandlerAcceptsAnyContentOfRightLength(t *testing.T) {
	svc := &enrollmentServiceMock{err: appErrors.NotFound("Enrollment id not found: x")}
	r := newEnrollmentRouter(svc)

	id := strings.Repeat("z", 36)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/enrollments/"+id, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, id, svc.lastID)
}

func TestEnrollmentHandlerCreateUpstreamFailureKeepsStatus(t *testing.T) {
	cause := appErrors.InvalidInput("StudentId invalid: bogus")
	svc := &enrollmentServiceMock{err: appErrors.NewUpstreamFailure("student", "bogus", cause)}
	r := newEnrollmentRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/enrollments", bytes.NewBufferString(`{"enrollmentYear":2021,"semester":"FALL","studentId":"bogus","courseId":"c"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "StudentId invalid: bogus", body.Message)
	assert.Equal(t, "/api/v1/enrollments", body.Path)
}

const storedEnrollmentKey = "06a7d573-bcab-4db3-956f-773324b92a80"

func storedEnrollmentResponse() *dto.EnrollmentResponse {
	return &dto.EnrollmentResponse{
		EnrollmentID:     storedEnrollmentKey,
		EnrollmentYear:   2021,
		Semester:         models.SemesterFall,
		StudentID:        donnaStudentID,
		StudentFirstName: "Donna",
		StudentLastName:  "Hornsby",
		CourseID:         "9a29fff7-564a-4cc9-8fe1-36f6ca9bc223",
		CourseNumber:     "N45-LA",
		CourseName:       "Web Services",
	}
}

func TestEnrollmentHandlerGet(t *testing.T) {
	svc := &enrollmentServiceMock{resp: storedEnrollmentResponse()}
	r := newEnrollmentRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/enrollments/"+storedEnrollmentKey, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, storedEnrollmentKey, svc.lastID)
	var body dto.EnrollmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, *storedEnrollmentResponse(), body)
}

func TestEnrollmentHandlerUpdate(t *testing.T) {
	updated := storedEnrollmentResponse()
	updated.Semester = models.SemesterSpring
	svc := &enrollmentServiceMock{resp: updated}
	r := newEnrollmentRouter(svc)

	w := httptest.NewRecorder()
	payload := `{"enrollmentYear":2021,"semester":"SPRING","studentId":"` + donnaStudentID + `","courseId":"9a29fff7-564a-4cc9-8fe1-36f6ca9bc223"}`
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/enrollments/"+storedEnrollmentKey, bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, storedEnrollmentKey, svc.lastID)
	assert.Equal(t, 1, svc.callCount)
	var body dto.EnrollmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, storedEnrollmentKey, body.EnrollmentID)
	assert.Equal(t, models.SemesterSpring, body.Semester)
}

func TestEnrollmentHandlerUpdateMissing(t *testing.T) {
	svc := &enrollmentServiceMock{err: appErrors.NotFound("Enrollment id not found: " + storedEnrollmentKey)}
	r := newEnrollmentRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/enrollments/"+storedEnrollmentKey, bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Enrollment id not found: "+storedEnrollmentKey, body.Message)
}

func TestEnrollmentHandlerDelete(t *testing.T) {
	svc := &enrollmentServiceMock{resp: storedEnrollmentResponse()}
	r := newEnrollmentRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/enrollments/"+storedEnrollmentKey, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, storedEnrollmentKey, svc.lastID)
	var body dto.EnrollmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, storedEnrollmentKey, body.EnrollmentID)
	assert.Equal(t, "Hornsby", body.StudentLastName)
}

func TestEnrollmentHandlerCreateEmptyBody(t *testing.T) {
	svc := &enrollmentServiceMock{}
	r := newEnrollmentRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/enrollments", nil)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.callCount)
}

func TestEnrollmentHandlerListEventStream(t *testing.T) {
	svc := &enrollmentServiceMock{resp: &dto.EnrollmentResponse{EnrollmentID: "e-1", CourseName: "Web Services"}}
	r := newEnrollmentRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/enrollments", nil)
	req.Header.Set("Accept", "text/event-stream")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Contains(t, w.Body.String(), `"courseName":"Web Services"`)
}

// memoryEnrollmentStore backs the end-to-end test.
type memoryEnrollmentStore struct {
	mu      sync.Mutex
	records []models.Enrollment
}

func (m *memoryEnrollmentStore) Stream(ctx context.Context) iter.Seq2[models.Enrollment, error] {
	m.mu.Lock()
	items := append([]models.Enrollment(nil), m.records...)
	m.mu.Unlock()
	return func(yield func(models.Enrollment, error) bool) {
		for _, e := range items {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (m *memoryEnrollmentStore) FindByEnrollmentID(ctx context.Context, enrollmentID string) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.records {
		if e.EnrollmentID == enrollmentID {
			found := e
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryEnrollmentStore) Create(ctx context.Context, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	enrollment.ID = enrollment.EnrollmentID
	m.records = append(m.records, *enrollment)
	return nil
}

func (m *memoryEnrollmentStore) Update(ctx context.Context, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.records {
		if e.ID == enrollment.ID {
			m.records[i] = *enrollment
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memoryEnrollmentStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.records {
		if e.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memoryEnrollmentStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func TestEnrollmentEndToEndCreate(t *testing.T) {
	var remoteCalls int32
	var forwardedID atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/students/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&remoteCalls, 1)
		forwardedID.Store(r.Header.Get(requestid.Header))
		if strings.TrimPrefix(r.URL.Path, "/api/v1/students/") != donnaStudentID {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"studentId":"` + donnaStudentID + `","firstName":"Donna","lastName":"Hornsby","program":"Computer Science"}`))
	})
	mux.HandleFunc("/api/v1/courses/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&remoteCalls, 1)
		_, _ = w.Write([]byte(`{"courseId":"` + webServicesCourseID + `","courseNumber":"N45-LA","courseName":"Web Services","numHours":60,"numCredits":2.0,"department":"Computer Science"}`))
	})
	remote := httptest.NewServer(mux)
	defer remote.Close()

	store := &memoryEnrollmentStore{}
	metrics := service.NewMetricsService()
	svc := service.NewEnrollmentService(
		store,
		client.NewStudentClient(remote.URL+"/api/v1/students", time.Second, metrics),
		client.NewCourseClient(remote.URL+"/api/v1/courses", time.Second, metrics),
		nil, metrics, zap.NewNop(), service.EnrollmentServiceConfig{LookupTimeout: 2 * time.Second},
	)
	r := newEnrollmentRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/enrollments", bytes.NewBufferString(
		`{"enrollmentYear":2021,"semester":"FALL","studentId":"`+donnaStudentID+`","courseId":"`+webServicesCourseID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestid.Header, "e2e-request")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.EnrollmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Len(t, created.EnrollmentID, 36)
	assert.Equal(t, 2021, created.EnrollmentYear)
	assert.Equal(t, models.SemesterFall, created.Semester)
	assert.Equal(t, "Donna", created.StudentFirstName)
	assert.Equal(t, "Hornsby", created.StudentLastName)
	assert.Equal(t, "N45-LA", created.CourseNumber)
	assert.Equal(t, "Web Services", created.CourseName)
	assert.Equal(t, 1, store.size())
	assert.Equal(t, "e2e-request", forwardedID.Load())

	// unknown student: 404 with the remote message, store unchanged
	w = httptest.NewRecorder()
	unknown := "11111111-2222-3333-4444-555555555555"
	req, _ = http.NewRequest(http.MethodPost, "/api/v1/enrollments", bytes.NewBufferString(
		`{"enrollmentYear":2021,"semester":"FALL","studentId":"`+unknown+`","courseId":"`+webServicesCourseID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "StudentId not found: "+unknown)
	assert.Equal(t, 1, store.size())

	// reads come from the store
	before := atomic.LoadInt32(&remoteCalls)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/enrollments/"+created.EnrollmentID, nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before, atomic.LoadInt32(&remoteCalls))

	// invalid path key never reaches the service
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodDelete, "/api/v1/enrollments/short", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 1, store.size())
	assert.Equal(t, before, atomic.LoadInt32(&remoteCalls))
}
