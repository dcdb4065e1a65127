package models

// AnalyticsQuery carries the optional filters accepted by analytics endpoints.
type AnalyticsQuery struct {
	StudentID    string
	CourseID     string
	Semester     string
	AcademicYear string
}

// GradeBucket is one letter grade in a distribution.
type GradeBucket struct {
	LetterGrade string  `json:"letterGrade"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
}

// CoursePerformance summarises the numeric grades recorded for one course.
type CoursePerformance struct {
	CourseID          string        `json:"courseId"`
	CourseName        string        `json:"courseName"`
	AverageGrade      float64       `json:"averageGrade"`
	HighestGrade      float64       `json:"highestGrade"`
	LowestGrade       float64       `json:"lowestGrade"`
	RecordCount       int           `json:"recordCount"`
	GradeDistribution []GradeBucket `json:"gradeDistribution"`
}

// TrendData pairs chronologically ordered semester keys with their average numeric grade.
type TrendData struct {
	Semesters     []string  `json:"semesters"`
	AverageGrades []float64 `json:"averageGrades"`
}

// PerformanceMetrics is the performance report for a resolved scope.
type PerformanceMetrics struct {
	OverallGPA        float64             `json:"overallGPA"`
	SemesterGPA       map[string]float64  `json:"semesterGPA"`
	CoursePerformance []CoursePerformance `json:"coursePerformance"`
	TrendData         TrendData           `json:"trendData"`
	RecordCount       int                 `json:"recordCount"`
}

// CourseAttendance is the attendance rollup for one course.
type CourseAttendance struct {
	CourseID       string  `json:"courseId"`
	CourseName     string  `json:"courseName"`
	AttendanceRate float64 `json:"attendanceRate"`
	TotalSessions  int     `json:"totalSessions"`
	Absences       int     `json:"absences"`
	LateArrivals   int     `json:"lateArrivals"`
}

// MonthlyAttendance is the attendance rollup for one calendar month.
type MonthlyAttendance struct {
	Month          string  `json:"month"`
	AttendanceRate float64 `json:"attendanceRate"`
	TotalSessions  int     `json:"totalSessions"`
	Absences       int     `json:"absences"`
	LateArrivals   int     `json:"lateArrivals"`
}

// AttendanceStatistics is the attendance report for a resolved scope.
type AttendanceStatistics struct {
	OverallAttendanceRate float64             `json:"overallAttendanceRate"`
	OverallPresenceRate   float64             `json:"overallPresenceRate"`
	TotalRecords          int                 `json:"totalRecords"`
	CourseAttendance      []CourseAttendance  `json:"courseAttendance"`
	MonthlyAttendance     []MonthlyAttendance `json:"monthlyAttendance"`
}

// SemesterSummary is one row of the per-semester breakdown in a student report.
type SemesterSummary struct {
	Semester string  `json:"semester"`
	GPA      float64 `json:"gpa"`
	Credits  float64 `json:"credits"`
	Courses  int     `json:"courses"`
}

// AcademicPerformance is the grade half of a student report.
type AcademicPerformance struct {
	CurrentGPA        float64           `json:"currentGPA"`
	TotalCredits      float64           `json:"totalCredits"`
	CompletedCourses  int               `json:"completedCourses"`
	InProgressCourses int               `json:"inProgressCourses"`
	GradeDistribution []GradeBucket     `json:"gradeDistribution"`
	SemesterBreakdown []SemesterSummary `json:"semesterBreakdown"`
}

// AttendanceRecordSummary is the attendance half of a student report.
type AttendanceRecordSummary struct {
	OverallRate     float64            `json:"overallRate"`
	Present         int                `json:"present"`
	Late            int                `json:"late"`
	Absent          int                `json:"absent"`
	Excused         int                `json:"excused"`
	Total           int                `json:"total"`
	CourseBreakdown []CourseAttendance `json:"courseBreakdown"`
}

// StudentReport is the composite report for a single student.
type StudentReport struct {
	Student             Student                 `json:"student"`
	AcademicPerformance AcademicPerformance     `json:"academicPerformance"`
	AttendanceRecord    AttendanceRecordSummary `json:"attendanceRecord"`
}
