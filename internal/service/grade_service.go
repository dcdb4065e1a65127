package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-performance-api/internal/models"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
	"github.com/noah-isme/academic-performance-api/pkg/validation"
)

type gradeRepository interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.GradeRecord, int, error)
	Create(ctx context.Context, grade *models.GradeRecord) error
	Delete(ctx context.Context, id string) error
}

type scopeResolver interface {
	ResolveScope(ctx context.Context, principal models.Principal, targetStudentID string) (models.RecordScope, *models.Student, error)
}

// CreateGradeRequest holds payload for recording a grade.
type CreateGradeRequest struct {
	StudentID      string     `json:"studentId" validate:"required"`
	CourseID       string     `json:"courseId" validate:"required,max=64"`
	CourseName     string     `json:"courseName" validate:"required,max=255"`
	Semester       string     `json:"semester" validate:"required,max=32"`
	AcademicYear   string     `json:"academicYear" validate:"required,max=32"`
	NumericGrade   *float64   `json:"numericGrade" validate:"required,gte=0,lte=100"`
	LetterGrade    string     `json:"letterGrade" validate:"required,letter_grade"`
	CreditHours    *float64   `json:"creditHours" validate:"required,gte=0"`
	SubmissionDate *time.Time `json:"submissionDate"`
	InstructorID   string     `json:"instructorId"`
	InstructorName string     `json:"instructorName"`
	Comments       *string    `json:"comments" validate:"omitempty,max=1000"`
}

// GradeService handles grade record use-cases.
type GradeService struct {
	repo      gradeRepository
	students  StudentLookup
	scopes    scopeResolver
	validator *validation.Validator
	logger    *zap.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(repo gradeRepository, students StudentLookup, scopes scopeResolver, validate *validation.Validator, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, students: students, scopes: scopes, validator: validate, logger: logger}
}

// List returns the grades visible to principal, narrowed by filter.
func (s *GradeService) List(ctx context.Context, principal models.Principal, filter models.GradeFilter) ([]models.GradeRecord, *models.Pagination, error) {
	scope, _, err := s.scopes.ResolveScope(ctx, principal, filter.StudentID)
	if err != nil {
		return nil, nil, err
	}
	filter.StudentID = scope.StudentID

	grades, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, newPagination(filter.Page, filter.PageSize, total), nil
}

// Create records a grade. The instructor defaults to the calling user.
func (s *GradeService) Create(ctx context.Context, req CreateGradeRequest, instructor models.UserInfo) (*models.GradeRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid grade payload"), s.validator.Translate(err))
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrStudentNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	grade := &models.GradeRecord{
		StudentID:      req.StudentID,
		CourseID:       strings.TrimSpace(req.CourseID),
		CourseName:     strings.TrimSpace(req.CourseName),
		Semester:       strings.TrimSpace(req.Semester),
		AcademicYear:   strings.TrimSpace(req.AcademicYear),
		NumericGrade:   *req.NumericGrade,
		LetterGrade:    strings.ToUpper(req.LetterGrade),
		CreditHours:    *req.CreditHours,
		InstructorID:   req.InstructorID,
		InstructorName: req.InstructorName,
		Comments:       req.Comments,
	}
	if req.SubmissionDate != nil {
		grade.SubmissionDate = req.SubmissionDate.UTC()
	}
	if grade.InstructorID == "" {
		grade.InstructorID = instructor.ID
		grade.InstructorName = instructor.FullName
	}

	if err := s.repo.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade")
	}
	s.logger.Info("grade recorded", zap.String("grade_id", grade.ID), zap.String("student_id", grade.StudentID), zap.String("course_id", grade.CourseID))
	return grade, nil
}

// Delete removes a grade record.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	return nil
}
