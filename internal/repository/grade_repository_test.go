package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-performance-api/internal/models"
)

var gradeMockColumns = []string{"id", "student_id", "course_id", "course_name", "semester", "academic_year", "numeric_grade", "letter_grade",
	"credit_hours", "submission_date", "instructor_id", "instructor_name", "comments", "created_at", "updated_at"}

func TestGradeRepositoryFindByScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(gradeMockColumns).
		AddRow("g1", "s1", "CS101", "Intro to CS", "Fall", "2023-2024", 90.0, "A", 3.0, now, "i1", "Dr. Knuth", nil, now, now).
		AddRow("g2", "s1", "CS101", "Intro to CS", "Fall", "2023-2024", 70.0, "C", 3.0, now, "i1", "Dr. Knuth", "late submission", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM grades g WHERE 1=1 AND g.student_id = $1 AND g.course_id = $2 ORDER BY g.submission_date ASC")).
		WithArgs("s1", "CS101").
		WillReturnRows(rows)

	grades, err := repo.FindByScope(context.Background(), models.RecordScope{StudentID: "s1", CourseID: "CS101"})
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.Nil(t, grades[0].Comments)
	require.NotNil(t, grades[1].Comments)
	assert.Equal(t, "late submission", *grades[1].Comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindByScopeUnrestricted(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM grades g WHERE 1=1 ORDER BY")).
		WillReturnRows(sqlmock.NewRows(gradeMockColumns))

	grades, err := repo.FindByScope(context.Background(), models.RecordScope{})
	require.NoError(t, err)
	assert.Empty(t, grades)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindByScopeError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM grades g").WillReturnError(boom)

	_, err := repo.FindByScope(context.Background(), models.RecordScope{Semester: "Fall"})
	assert.ErrorIs(t, err, boom)
}

func TestGradeRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM grades g WHERE 1=1 AND g.semester = $1 AND g.academic_year = $2 ORDER BY g.submission_date DESC, g.id ASC LIMIT 20 OFFSET 0")).
		WithArgs("Fall", "2023-2024").
		WillReturnRows(sqlmock.NewRows(gradeMockColumns).AddRow("g1", "s1", "CS101", "Intro", "Fall", "2023-2024", 88.0, "B+", 4.0, now, "i1", "Dr", nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM grades g WHERE 1=1 AND g.semester = $1 AND g.academic_year = $2")).
		WithArgs("Fall", "2023-2024").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	grades, total, err := repo.List(context.Background(), models.GradeFilter{RecordScope: models.RecordScope{Semester: "Fall", AcademicYear: "2023-2024"}})
	require.NoError(t, err)
	assert.Len(t, grades, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectExec("INSERT INTO grades").WillReturnResult(sqlmock.NewResult(1, 1))

	grade := &models.GradeRecord{StudentID: "s1", CourseID: "CS101", NumericGrade: 91, LetterGrade: "A", CreditHours: 3}
	require.NoError(t, repo.Create(context.Background(), grade))
	assert.NotEmpty(t, grade.ID)
	assert.False(t, grade.SubmissionDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grades WHERE id = $1")).WithArgs("g1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grades WHERE id = $1")).WithArgs("g2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "g1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "g2"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryMalformedIDIsMiss(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	malformed := &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	mock.ExpectQuery(regexp.QuoteMeta("FROM grades g WHERE g.id = $1")).WithArgs("abc").WillReturnError(malformed)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grades WHERE id = $1")).WithArgs("abc").WillReturnError(malformed)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_records WHERE id = $1")).WithArgs("abc").WillReturnError(malformed)

	_, err := repo.FindByID(context.Background(), "abc")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(context.Background(), "abc"), sql.ErrNoRows)
	assert.ErrorIs(t, NewAttendanceRepository(db).Delete(context.Background(), "abc"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
