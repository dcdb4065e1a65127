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

const gradeColumns = `g.id, g.student_id, g.course_id, g.course_name, g.semester, g.academic_year, g.numeric_grade, g.letter_grade,
        g.credit_hours, g.submission_date, g.instructor_id, g.instructor_name, g.comments, g.created_at, g.updated_at`

// GradeRepository handles grade record persistence.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// FindByScope returns every grade record inside scope.
func (r *GradeRepository) FindByScope(ctx context.Context, scope models.RecordScope) ([]models.GradeRecord, error) {
	conditions, args := appendScopeConditions("g", scope, []string{"1=1"}, nil)
	query := fmt.Sprintf("SELECT %s FROM grades g WHERE %s ORDER BY g.submission_date ASC, g.id ASC", gradeColumns, strings.Join(conditions, " AND "))

	var grades []models.GradeRecord
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("find grades by scope: %w", err)
	}
	return grades, nil
}

// List returns a page of grade records matching the filter with the total count.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeRecord, int, error) {
	conditions, args := appendScopeConditions("g", filter.RecordScope, []string{"1=1"}, nil)
	base := fmt.Sprintf("FROM grades g WHERE %s", strings.Join(conditions, " AND "))
	size, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY g.submission_date DESC, g.id ASC LIMIT %d OFFSET %d", gradeColumns, base, size, offset)
	var grades []models.GradeRecord
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list grades: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count grades: %w", err)
	}
	return grades, total, nil
}

// FindByID fetches a single grade record.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.GradeRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM grades g WHERE g.id = $1", gradeColumns)
	var grade models.GradeRecord
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		if err = notFoundOnMalformedID(err); err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find grade: %w", err)
	}
	return &grade, nil
}

// Create inserts a new grade record.
func (r *GradeRepository) Create(ctx context.Context, grade *models.GradeRecord) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	if grade.SubmissionDate.IsZero() {
		grade.SubmissionDate = now
	}
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, student_id, course_id, course_name, semester, academic_year, numeric_grade, letter_grade,
        credit_hours, submission_date, instructor_id, instructor_name, comments, created_at, updated_at)
        VALUES (:id, :student_id, :course_id, :course_name, :semester, :academic_year, :numeric_grade, :letter_grade,
        :credit_hours, :submission_date, :instructor_id, :instructor_name, :comments, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// Delete removes a grade record. It returns sql.ErrNoRows when nothing was deleted.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		if err = notFoundOnMalformedID(err); err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("delete grade: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete grade rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
