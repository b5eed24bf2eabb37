package models

import "time"

// Semester identifies the academic term of an enrollment.
type Semester string

// Supported semesters.
const (
	SemesterFall   Semester = "FALL"
	SemesterSpring Semester = "SPRING"
	SemesterSummer Semester = "SUMMER"
)

// Valid reports whether s is a known semester.
func (s Semester) Valid() bool {
	switch s {
	case SemesterFall, SemesterSpring, SemesterSummer:
		return true
	}
	return false
}

// Enrollment records a student's registration in a course. Student and course
// names are copied at write time and not kept in sync afterwards.
type Enrollment struct {
	ID               string    `db:"id" json:"id"`
	EnrollmentID     string    `db:"enrollment_id" json:"enrollmentId"`
	EnrollmentYear   int       `db:"enrollment_year" json:"enrollmentYear"`
	Semester         Semester  `db:"semester" json:"semester"`
	StudentID        string    `db:"student_id" json:"studentId"`
	StudentFirstName string    `db:"student_first_name" json:"studentFirstName"`
	StudentLastName  string    `db:"student_last_name" json:"studentLastName"`
	CourseID         string    `db:"course_id" json:"courseId"`
	CourseNumber     string    `db:"course_number" json:"courseNumber"`
	CourseName       string    `db:"course_name" json:"courseName"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}
