package dto

import "github.com/noah-isme/course-enrollment-api/internal/models"

// EnrollmentRequest is the payload accepted when creating or replacing an enrollment.
type EnrollmentRequest struct {
	EnrollmentYear int             `json:"enrollmentYear" validate:"required,gt=0"`
	Semester       models.Semester `json:"semester" validate:"required,semester"`
	StudentID      string          `json:"studentId" validate:"required"`
	CourseID       string          `json:"courseId" validate:"required"`
}

// EnrollmentResponse is the public projection of an enrollment.
type EnrollmentResponse struct {
	EnrollmentID     string          `json:"enrollmentId"`
	EnrollmentYear   int             `json:"enrollmentYear"`
	Semester         models.Semester `json:"semester"`
	StudentID        string          `json:"studentId"`
	StudentFirstName string          `json:"studentFirstName"`
	StudentLastName  string          `json:"studentLastName"`
	CourseID         string          `json:"courseId"`
	CourseNumber     string          `json:"courseNumber"`
	CourseName       string          `json:"courseName"`
}

// NewEnrollmentResponse projects a stored enrollment.
func NewEnrollmentResponse(e models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		EnrollmentID:     e.EnrollmentID,
		EnrollmentYear:   e.EnrollmentYear,
		Semester:         e.Semester,
		StudentID:        e.StudentID,
		StudentFirstName: e.StudentFirstName,
		StudentLastName:  e.StudentLastName,
		CourseID:         e.CourseID,
		CourseNumber:     e.CourseNumber,
		CourseName:       e.CourseName,
	}
}
