package models

import "time"

// GradeRecord is a single graded course outcome for a student.
type GradeRecord struct {
	ID             string    `db:"id" json:"id" bson:"_id"`
	StudentID      string    `db:"student_id" json:"studentId" bson:"studentId"`
	CourseID       string    `db:"course_id" json:"courseId" bson:"courseId"`
	CourseName     string    `db:"course_name" json:"courseName" bson:"courseName"`
	Semester       string    `db:"semester" json:"semester" bson:"semester"`
	AcademicYear   string    `db:"academic_year" json:"academicYear" bson:"academicYear"`
	NumericGrade   float64   `db:"numeric_grade" json:"numericGrade" bson:"grade"`
	LetterGrade    string    `db:"letter_grade" json:"letterGrade" bson:"letterGrade"`
	CreditHours    float64   `db:"credit_hours" json:"creditHours" bson:"creditHours"`
	SubmissionDate time.Time `db:"submission_date" json:"submissionDate" bson:"submissionDate"`
	InstructorID   string    `db:"instructor_id" json:"instructorId" bson:"instructorId"`
	InstructorName string    `db:"instructor_name" json:"instructorName" bson:"instructorName"`
	Comments       *string   `db:"comments" json:"comments,omitempty" bson:"comments,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// GradeFilter scopes paginated grade listings.
type GradeFilter struct {
	RecordScope
	Page     int
	PageSize int
}
