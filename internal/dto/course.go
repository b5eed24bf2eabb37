package dto

import "github.com/noah-isme/course-enrollment-api/internal/models"

// CourseRequest is the payload accepted when creating or replacing a course.
type CourseRequest struct {
	CourseNumber string  `json:"courseNumber" validate:"required"`
	CourseName   string  `json:"courseName" validate:"required"`
	NumHours     int     `json:"numHours" validate:"gte=0"`
	NumCredits   float64 `json:"numCredits" validate:"gte=0"`
	Department   string  `json:"department"`
}

// CourseResponse is the public projection of a course.
type CourseResponse struct {
	CourseID     string  `json:"courseId"`
	CourseNumber string  `json:"courseNumber"`
	CourseName   string  `json:"courseName"`
	NumHours     int     `json:"numHours"`
	NumCredits   float64 `json:"numCredits"`
	Department   string  `json:"department"`
}

// NewCourseResponse projects a stored course.
func NewCourseResponse(c models.Course) CourseResponse {
	return CourseResponse{
		CourseID:     c.CourseID,
		CourseNumber: c.CourseNumber,
		CourseName:   c.CourseName,
		NumHours:     c.NumHours,
		NumCredits:   c.NumCredits,
		Department:   c.Department,
	}
}
