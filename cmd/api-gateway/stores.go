package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/academic-performance-api/internal/models"
	"github.com/noah-isme/academic-performance-api/internal/repository"
	"github.com/noah-isme/academic-performance-api/internal/service"
	"github.com/noah-isme/academic-performance-api/pkg/config"
)

type gradeStore interface {
	service.GradeSource
	List(ctx context.Context, filter models.GradeFilter) ([]models.GradeRecord, int, error)
	Create(ctx context.Context, grade *models.GradeRecord) error
	Delete(ctx context.Context, id string) error
}

type attendanceStore interface {
	service.AttendanceSource
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Delete(ctx context.Context, id string) error
}

type studentStore interface {
	service.StudentLookup
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

// recordStores holds the single store backing both record management and analytics.
type recordStores struct {
	grades     gradeStore
	attendance attendanceStore
	students   studentStore
}

// newRecordStores selects the academic record store. Users and refresh tokens always live in
// Postgres; mongoDB is only consulted when source is config.SourceMongo.
func newRecordStores(source string, db *sqlx.DB, mongoDB *mongo.Database) recordStores {
	if source == config.SourceMongo && mongoDB != nil {
		return recordStores{
			grades:     repository.NewMongoGradeRepository(mongoDB),
			attendance: repository.NewMongoAttendanceRepository(mongoDB),
			students:   repository.NewMongoStudentRepository(mongoDB),
		}
	}
	return recordStores{
		grades:     repository.NewGradeRepository(db),
		attendance: repository.NewAttendanceRepository(db),
		students:   repository.NewStudentRepository(db),
	}
}
