package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// AttendanceRecord is a single attendance mark for a student in a course session.
type AttendanceRecord struct {
	ID         string           `db:"id" json:"id" bson:"_id"`
	StudentID  string           `db:"student_id" json:"studentId" bson:"studentId"`
	CourseID   string           `db:"course_id" json:"courseId" bson:"courseId"`
	CourseName string           `db:"course_name" json:"courseName" bson:"courseName"`
	Date       time.Time        `db:"date" json:"date" bson:"date"`
	Status     AttendanceStatus `db:"status" json:"status" bson:"status"`
	Duration   *int             `db:"duration" json:"duration,omitempty" bson:"duration,omitempty"`
	Notes      *string          `db:"notes" json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// AttendanceFilter scopes paginated attendance listings.
type AttendanceFilter struct {
	RecordScope
	Status   *AttendanceStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}
