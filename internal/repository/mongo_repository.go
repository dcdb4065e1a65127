package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/academic-performance-api/internal/models"
)

// Collection names used by the document store.
const (
	MongoGradesCollection     = "grades"
	MongoAttendanceCollection = "attendances"
	MongoStudentsCollection   = "students"
)

// MongoGradeRepository stores grade documents.
type MongoGradeRepository struct {
	col *mongo.Collection
}

// NewMongoGradeRepository constructs a MongoGradeRepository.
func NewMongoGradeRepository(db *mongo.Database) *MongoGradeRepository {
	return &MongoGradeRepository{col: db.Collection(MongoGradesCollection)}
}

// FindByScope returns every grade document inside scope.
func (r *MongoGradeRepository) FindByScope(ctx context.Context, scope models.RecordScope) ([]models.GradeRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submissionDate", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, gradeScopeFilter(scope), opts)
	if err != nil {
		return nil, fmt.Errorf("find grade documents: %w", err)
	}
	defer cursor.Close(ctx)

	var grades []models.GradeRecord
	if err := cursor.All(ctx, &grades); err != nil {
		return nil, fmt.Errorf("decode grade documents: %w", err)
	}
	return grades, nil
}

// List returns a page of grade documents matching the filter with the total count.
func (r *MongoGradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeRecord, int, error) {
	query := gradeScopeFilter(filter.RecordScope)
	opts := pageOptions(filter.Page, filter.PageSize).SetSort(bson.D{{Key: "submissionDate", Value: -1}, {Key: "_id", Value: 1}})

	var grades []models.GradeRecord
	if err := findAll(ctx, r.col, query, opts, &grades); err != nil {
		return nil, 0, fmt.Errorf("list grade documents: %w", err)
	}
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count grade documents: %w", err)
	}
	return grades, int(total), nil
}

// Create inserts a grade document.
func (r *MongoGradeRepository) Create(ctx context.Context, grade *models.GradeRecord) error {
	if grade.ID == "" {
		grade.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	if grade.SubmissionDate.IsZero() {
		grade.SubmissionDate = now
	}
	grade.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, grade); err != nil {
		return fmt.Errorf("insert grade document: %w", err)
	}
	return nil
}

// Delete removes a grade document. It returns sql.ErrNoRows when nothing was deleted.
func (r *MongoGradeRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, "grade")
}

// MongoAttendanceRepository stores attendance documents.
type MongoAttendanceRepository struct {
	col *mongo.Collection
}

// NewMongoAttendanceRepository constructs a MongoAttendanceRepository.
func NewMongoAttendanceRepository(db *mongo.Database) *MongoAttendanceRepository {
	return &MongoAttendanceRepository{col: db.Collection(MongoAttendanceCollection)}
}

// FindByScope returns every attendance document inside scope.
func (r *MongoAttendanceRepository) FindByScope(ctx context.Context, scope models.RecordScope) ([]models.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, attendanceScopeFilter(scope), opts)
	if err != nil {
		return nil, fmt.Errorf("find attendance documents: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.AttendanceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode attendance documents: %w", err)
	}
	return records, nil
}

// List returns a page of attendance documents with the total count.
func (r *MongoAttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	query := attendanceListFilter(filter)
	opts := pageOptions(filter.Page, filter.PageSize).SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}})

	var records []models.AttendanceRecord
	if err := findAll(ctx, r.col, query, opts, &records); err != nil {
		return nil, 0, fmt.Errorf("list attendance documents: %w", err)
	}
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count attendance documents: %w", err)
	}
	return records, int(total), nil
}

// Create inserts an attendance document.
func (r *MongoAttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert attendance document: %w", err)
	}
	return nil
}

// Delete removes an attendance document. It returns sql.ErrNoRows when nothing was deleted.
func (r *MongoAttendanceRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, "attendance")
}

// MongoStudentRepository stores student profiles as documents.
type MongoStudentRepository struct {
	col *mongo.Collection
}

// NewMongoStudentRepository constructs a MongoStudentRepository.
func NewMongoStudentRepository(db *mongo.Database) *MongoStudentRepository {
	return &MongoStudentRepository{col: db.Collection(MongoStudentsCollection)}
}

// FindByID fetches a student profile by document id. A miss is reported as sql.ErrNoRows so
// callers handle both stores alike.
func (r *MongoStudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return r.findOne(ctx, bson.M{"_id": idMatch(id)})
}

// FindByUserID fetches the student profile linked to a login account.
func (r *MongoStudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	return r.findOne(ctx, bson.M{"userId": idMatch(userID)})
}

func (r *MongoStudentRepository) findOne(ctx context.Context, filter bson.M) (*models.Student, error) {
	var student models.Student
	if err := r.col.FindOne(ctx, filter).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find student document: %w", err)
	}
	return &student, nil
}

// List returns student documents matching the provided filters.
func (r *MongoStudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	query := studentListFilter(filter)
	opts := pageOptions(filter.Page, filter.PageSize).SetSort(studentSort(filter.SortBy, filter.SortOrder))

	var students []models.Student
	if err := findAll(ctx, r.col, query, opts, &students); err != nil {
		return nil, 0, fmt.Errorf("list student documents: %w", err)
	}
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count student documents: %w", err)
	}
	return students, int(total), nil
}

// ExistsByNumber checks if a student document carries the given student number.
func (r *MongoStudentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"studentId": number}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check student number: %w", err)
	}
	return count > 0, nil
}

// Create inserts a student document.
func (r *MongoStudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, student); err != nil {
		return fmt.Errorf("insert student document: %w", err)
	}
	return nil
}

func findAll(ctx context.Context, col *mongo.Collection, filter interface{}, opts *options.FindOptions, dest interface{}) error {
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, dest)
}

func deleteByID(ctx context.Context, col *mongo.Collection, id, kind string) error {
	res, err := col.DeleteOne(ctx, bson.M{"_id": idMatch(id)})
	if err != nil {
		return fmt.Errorf("delete %s document: %w", kind, err)
	}
	if res.DeletedCount == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func pageOptions(page, size int) *options.FindOptions {
	limit, offset := pageBounds(page, size)
	return options.Find().SetLimit(int64(limit)).SetSkip(int64(offset))
}

func gradeScopeFilter(scope models.RecordScope) bson.M {
	filter := bson.M{}
	if scope.StudentID != "" {
		filter["studentId"] = idMatch(scope.StudentID)
	}
	if scope.CourseID != "" {
		filter["courseId"] = scope.CourseID
	}
	if scope.Semester != "" {
		filter["semester"] = scope.Semester
	}
	if scope.AcademicYear != "" {
		filter["academicYear"] = scope.AcademicYear
	}
	return filter
}

func attendanceScopeFilter(scope models.RecordScope) bson.M {
	filter := bson.M{}
	if scope.StudentID != "" {
		filter["studentId"] = idMatch(scope.StudentID)
	}
	if scope.CourseID != "" {
		filter["courseId"] = scope.CourseID
	}
	return filter
}

func attendanceListFilter(filter models.AttendanceFilter) bson.M {
	query := attendanceScopeFilter(filter.RecordScope)
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	dateRange := bson.M{}
	if filter.DateFrom != nil {
		dateRange["$gte"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		dateRange["$lte"] = *filter.DateTo
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	return query
}

func studentListFilter(filter models.StudentFilter) bson.M {
	query := bson.M{}
	if filter.Program != "" {
		query["program"] = filter.Program
	}
	if filter.Active != nil {
		query["active"] = *filter.Active
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		query["$or"] = bson.A{bson.M{"fullName": pattern}, bson.M{"studentId": pattern}}
	}
	return query
}

func studentSort(sortBy, sortOrder string) bson.D {
	fields := map[string]string{
		"full_name":      "fullName",
		"student_number": "studentId",
		"created_at":     "createdAt",
	}
	field, ok := fields[sortBy]
	if !ok {
		field = "createdAt"
	}
	direction := -1
	if strings.EqualFold(sortOrder, "asc") {
		direction = 1
	}
	return bson.D{{Key: field, Value: direction}, {Key: "_id", Value: 1}}
}

// idMatch matches a reference stored either as an ObjectID or as its hex string.
func idMatch(id string) interface{} {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return id
	}
	return bson.M{"$in": bson.A{oid, id}}
}
