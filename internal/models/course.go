package models

import "time"

// Course is a registered course. CourseID is the natural key exposed over HTTP;
// ID is the storage identifier.
type Course struct {
	ID           string    `db:"id" json:"id"`
	CourseID     string    `db:"course_id" json:"courseId"`
	CourseNumber string    `db:"course_number" json:"courseNumber"`
	CourseName   string    `db:"course_name" json:"courseName"`
	NumHours     int       `db:"num_hours" json:"numHours"`
	NumCredits   float64   `db:"num_credits" json:"numCredits"`
	Department   string    `db:"department" json:"department"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
