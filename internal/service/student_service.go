package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-performance-api/internal/models"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
	"github.com/noah-isme/academic-performance-api/pkg/validation"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

// CreateStudentRequest holds payload for creating student profiles.
type CreateStudentRequest struct {
	UserID         *string `json:"userId" validate:"omitempty,uuid"`
	StudentNumber  string  `json:"studentNumber" validate:"required,max=32"`
	FullName       string  `json:"fullName" validate:"required,max=255"`
	Email          string  `json:"email" validate:"required,email"`
	Program        string  `json:"program" validate:"required"`
	EnrollmentYear int     `json:"enrollmentYear" validate:"required,gte=1900,lte=2100"`
}

// StudentService handles student profile use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validation.Validator, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, newPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a student profile.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrStudentNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student profile.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid student payload"), s.validator.Translate(err))
	}
	exists, err := s.repo.ExistsByNumber(ctx, req.StudentNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student number already used")
	}
	student := &models.Student{
		UserID:         req.UserID,
		StudentNumber:  req.StudentNumber,
		FullName:       req.FullName,
		Email:          req.Email,
		Program:        req.Program,
		EnrollmentYear: req.EnrollmentYear,
		Active:         true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID))
	return student, nil
}

func newPagination(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
