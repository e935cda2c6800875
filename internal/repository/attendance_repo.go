package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/rollcall-go-api/internal/models"
	"github.com/noah-isme/rollcall-go-api/internal/roster"
)

// AttendanceRepository persists per-subject attendance buckets.
type AttendanceRepository interface {
	ReplaceDay(ctx context.Context, stream models.Stream, semester int, subjectCode string, date time.Time, entries []models.AttendanceEntry) error
	ListByDate(ctx context.Context, stream models.Stream, semester int, subjectCode string, date time.Time) ([]models.AttendanceEntry, error)
	AbsenteesByDate(ctx context.Context, stream models.Stream, semester int, subjectCode string, date time.Time) ([]models.AttendanceEntry, error)
}

type attendanceRepository struct {
	db       *gorm.DB
	registry *roster.Registry
}

// NewAttendanceRepository constructs the attendance repository.
func NewAttendanceRepository(registry *roster.Registry) AttendanceRepository {
	return &attendanceRepository{db: registry.DB(), registry: registry}
}

func (r *attendanceRepository) bucket(ctx context.Context, stream models.Stream, semester int, subjectCode string) (*gorm.DB, string, error) {
	name, err := roster.AttendanceBucketName(stream, semester, subjectCode)
	if err != nil {
		return nil, "", err
	}
	if err := r.registry.Ensure(ctx, name, &models.AttendanceEntry{}); err != nil {
		return nil, "", err
	}
	return r.db.WithContext(ctx), name, nil
}

// ReplaceDay overwrites the whole day for a subject: re-marking attendance
// replaces the previous marks instead of stacking duplicates.
func (r *attendanceRepository) ReplaceDay(ctx context.Context, stream models.Stream, semester int, subjectCode string, date time.Time, entries []models.AttendanceEntry) error {
	db, name, err := r.bucket(ctx, stream, semester, subjectCode)
	if err != nil {
		return err
	}

	day := truncateToDay(date)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(name).Where("date = ?", day).Delete(&models.AttendanceEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].ID = 0
			entries[i].Date = day
		}
		return tx.Table(name).Create(&entries).Error
	})
}

func (r *attendanceRepository) ListByDate(ctx context.Context, stream models.Stream, semester int, subjectCode string, date time.Time) ([]models.AttendanceEntry, error) {
	db, name, err := r.bucket(ctx, stream, semester, subjectCode)
	if err != nil {
		return nil, err
	}

	var entries []models.AttendanceEntry
	if err := db.Table(name).
		Where("date = ?", truncateToDay(date)).
		Order("student_id").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *attendanceRepository) AbsenteesByDate(ctx context.Context, stream models.Stream, semester int, subjectCode string, date time.Time) ([]models.AttendanceEntry, error) {
	db, name, err := r.bucket(ctx, stream, semester, subjectCode)
	if err != nil {
		return nil, err
	}

	var entries []models.AttendanceEntry
	if err := db.Table(name).
		Where("date = ? AND status = ?", truncateToDay(date), models.AttendanceAbsent).
		Order("student_id").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
