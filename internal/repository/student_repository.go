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

const studentColumns = `id, user_id, student_number, full_name, email, program, enrollment_year, active, created_at, updated_at`

// StudentRepository manages persistence for student profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Program != "" {
		args = append(args, filter.Program)
		conditions = append(conditions, fmt.Sprintf("program = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(student_number) LIKE $%d)", len(args), len(args)))
	}

	base := fmt.Sprintf("FROM students WHERE %s", strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"full_name":      "full_name",
		"student_number": "student_number",
		"created_at":     "created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	size, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", studentColumns, base, column, order, size, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student profile by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return r.findOne(ctx, "id", id)
}

// FindByUserID fetches the student profile linked to a login account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	return r.findOne(ctx, "user_id", userID)
}

func (r *StudentRepository) findOne(ctx context.Context, column, value string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE %s = $1 LIMIT 1", studentColumns, column)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, value); err != nil {
		if err = notFoundOnMalformedID(err); err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by %s: %w", column, err)
	}
	return &student, nil
}

// ExistsByNumber checks if a student with the given student number exists.
func (r *StudentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM students WHERE student_number = $1 LIMIT 1", number); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student number: %w", err)
	}
	return true, nil
}

// Create inserts a new student profile.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, user_id, student_number, full_name, email, program, enrollment_year, active, created_at, updated_at)
        VALUES (:id, :user_id, :student_number, :full_name, :email, :program, :enrollment_year, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
