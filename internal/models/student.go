package models

import "time"

// Student is the enrollment profile of a learner. UserID links the profile to a login account.
type Student struct {
	ID             string    `db:"id" json:"id" bson:"_id"`
	UserID         *string   `db:"user_id" json:"userId,omitempty" bson:"userId,omitempty"`
	StudentNumber  string    `db:"student_number" json:"studentNumber" bson:"studentId"`
	FullName       string    `db:"full_name" json:"fullName" bson:"fullName"`
	Email          string    `db:"email" json:"email" bson:"email"`
	Program        string    `db:"program" json:"program" bson:"program"`
	EnrollmentYear int       `db:"enrollment_year" json:"enrollmentYear" bson:"enrollmentYear"`
	Active         bool      `db:"active" json:"active" bson:"active"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Program   string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
