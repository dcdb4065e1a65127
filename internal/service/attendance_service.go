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

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Delete(ctx context.Context, id string) error
}

// CreateAttendanceRequest holds payload for recording attendance.
type CreateAttendanceRequest struct {
	StudentID  string    `json:"studentId" validate:"required"`
	CourseID   string    `json:"courseId" validate:"required,max=64"`
	CourseName string    `json:"courseName" validate:"required,max=255"`
	Date       time.Time `json:"date" validate:"required"`
	Status     string    `json:"status" validate:"required,oneof=present absent late excused"`
	Duration   *int      `json:"duration" validate:"omitempty,gte=0"`
	Notes      *string   `json:"notes" validate:"omitempty,max=1000"`
}

// AttendanceService handles attendance record use-cases.
type AttendanceService struct {
	repo      attendanceRepository
	students  StudentLookup
	scopes    scopeResolver
	validator *validation.Validator
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, students StudentLookup, scopes scopeResolver, validate *validation.Validator, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, students: students, scopes: scopes, validator: validate, logger: logger}
}

// List returns the attendance records visible to principal, narrowed by filter.
func (s *AttendanceService) List(ctx context.Context, principal models.Principal, filter models.AttendanceFilter) ([]models.AttendanceRecord, *models.Pagination, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid attendance status")
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "date_to must not be before date_from")
	}

	scope, _, err := s.scopes.ResolveScope(ctx, principal, filter.StudentID)
	if err != nil {
		return nil, nil, err
	}
	filter.StudentID = scope.StudentID

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, newPagination(filter.Page, filter.PageSize, total), nil
}

// Create records an attendance mark.
func (s *AttendanceService) Create(ctx context.Context, req CreateAttendanceRequest) (*models.AttendanceRecord, error) {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid attendance payload"), s.validator.Translate(err))
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrStudentNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	record := &models.AttendanceRecord{
		StudentID:  req.StudentID,
		CourseID:   strings.TrimSpace(req.CourseID),
		CourseName: strings.TrimSpace(req.CourseName),
		Date:       req.Date.UTC(),
		Status:     models.AttendanceStatus(req.Status),
		Duration:   req.Duration,
		Notes:      req.Notes,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance")
	}
	return record, nil
}

// Delete removes an attendance record.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance")
	}
	return nil
}
