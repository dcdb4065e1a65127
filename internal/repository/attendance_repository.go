package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-performance-api/internal/models"
)

const attendanceColumns = `a.id, a.student_id, a.course_id, a.course_name, a.date, a.status, a.duration, a.notes, a.created_at, a.updated_at`

// AttendanceRepository handles attendance record persistence.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// FindByScope returns every attendance record inside scope. Semester and academic year do not
// apply to attendance and are ignored.
func (r *AttendanceRepository) FindByScope(ctx context.Context, scope models.RecordScope) ([]models.AttendanceRecord, error) {
	conditions, args := appendScopeConditions("a", attendanceScope(scope), []string{"1=1"}, nil)
	query := fmt.Sprintf("SELECT %s FROM attendance_records a WHERE %s ORDER BY a.date ASC, a.id ASC", attendanceColumns, strings.Join(conditions, " AND "))

	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("find attendance by scope: %w", err)
	}
	return records, nil
}

// List returns a page of attendance records with the total count.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	conditions, args := appendScopeConditions("a", attendanceScope(filter.RecordScope), []string{"1=1"}, nil)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", len(args)))
	}
	base := fmt.Sprintf("FROM attendance_records a WHERE %s", strings.Join(conditions, " AND "))
	size, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY a.date DESC, a.id ASC LIMIT %d OFFSET %d", attendanceColumns, base, size, offset)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return records, total, nil
}

// Create inserts a new attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO attendance_records (id, student_id, course_id, course_name, date, status, duration, notes, created_at, updated_at)
        VALUES (:id, :student_id, :course_id, :course_name, :date, :status, :duration, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Delete removes an attendance record. It returns sql.ErrNoRows when nothing was deleted.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		if err = notFoundOnMalformedID(err); err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("delete attendance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete attendance rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func attendanceScope(scope models.RecordScope) models.RecordScope {
	return models.RecordScope{StudentID: scope.StudentID, CourseID: scope.CourseID}
}
