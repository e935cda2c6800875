package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/rollcall-go-api/internal/models"
	"github.com/noah-isme/rollcall-go-api/internal/roster"
)

// StudentRosterRepository exposes the per-bucket persistence operations the
// roster and promotion workflows are built on. Every operation is scoped to
// one (stream, semester) bucket.
type StudentRosterRepository interface {
	EnsureBucket(ctx context.Context, stream models.Stream, semester int) error
	ListActive(ctx context.Context, stream models.Stream, semester int) ([]models.StudentRecord, error)
	ListAll(ctx context.Context, stream models.Stream, semester int) ([]models.StudentRecord, error)
	GetByStudentID(ctx context.Context, stream models.Stream, semester int, studentID string) (models.StudentRecord, error)
	Create(ctx context.Context, stream models.Stream, semester int, record *models.StudentRecord) error
	Update(ctx context.Context, stream models.Stream, semester int, record *models.StudentRecord) error
	BulkInsert(ctx context.Context, stream models.Stream, semester int, records []models.StudentRecord) error
	DeleteAll(ctx context.Context, stream models.Stream, semester int) (int64, error)
	Count(ctx context.Context, stream models.Stream, semester int) (int64, error)
	WithinTx(ctx context.Context, fn func(tx StudentRosterRepository) error) error
}

type studentRosterRepository struct {
	db       *gorm.DB
	registry *roster.Registry
}

// NewStudentRosterRepository constructs the student roster repository.
func NewStudentRosterRepository(registry *roster.Registry) StudentRosterRepository {
	return &studentRosterRepository{db: registry.DB(), registry: registry}
}

func (r *studentRosterRepository) bucket(ctx context.Context, stream models.Stream, semester int) (*gorm.DB, error) {
	name, err := roster.BucketName(stream, semester, roster.EntityStudents)
	if err != nil {
		return nil, err
	}
	if err := r.registry.Ensure(ctx, name, &models.StudentRecord{}); err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Table(name), nil
}

func (r *studentRosterRepository) EnsureBucket(ctx context.Context, stream models.Stream, semester int) error {
	_, err := r.bucket(ctx, stream, semester)
	return err
}

func (r *studentRosterRepository) ListActive(ctx context.Context, stream models.Stream, semester int) ([]models.StudentRecord, error) {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return nil, err
	}

	// Legacy rows predate the status column; NULL and empty both mean active.
	var records []models.StudentRecord
	if err := query.
		Where("status IS NULL OR status = '' OR status = ?", models.StudentStatusActive).
		Order("student_id").
		Find(&records).Error; err != nil {
		return nil, err
	}

	for i := range records {
		records[i].Status = records[i].NormalizedStatus()
	}
	return records, nil
}

func (r *studentRosterRepository) ListAll(ctx context.Context, stream models.Stream, semester int) ([]models.StudentRecord, error) {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return nil, err
	}

	var records []models.StudentRecord
	if err := query.Order("student_id").Find(&records).Error; err != nil {
		return nil, err
	}

	for i := range records {
		records[i].Status = records[i].NormalizedStatus()
	}
	return records, nil
}

func (r *studentRosterRepository) GetByStudentID(ctx context.Context, stream models.Stream, semester int, studentID string) (models.StudentRecord, error) {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return models.StudentRecord{}, err
	}

	var record models.StudentRecord
	if err := query.Where("student_id = ?", studentID).First(&record).Error; err != nil {
		return models.StudentRecord{}, err
	}

	record.Status = record.NormalizedStatus()
	return record, nil
}

func (r *studentRosterRepository) Create(ctx context.Context, stream models.Stream, semester int, record *models.StudentRecord) error {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return err
	}
	return query.Create(record).Error
}

func (r *studentRosterRepository) Update(ctx context.Context, stream models.Stream, semester int, record *models.StudentRecord) error {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return err
	}

	result := query.Where("id = ?", record.ID).Select("*").Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRosterRepository) BulkInsert(ctx context.Context, stream models.Stream, semester int, records []models.StudentRecord) error {
	if len(records) == 0 {
		return nil
	}

	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return err
	}
	return query.Create(&records).Error
}

func (r *studentRosterRepository) DeleteAll(ctx context.Context, stream models.Stream, semester int) (int64, error) {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return 0, err
	}

	result := query.Where("1 = 1").Delete(&models.StudentRecord{})
	return result.RowsAffected, result.Error
}

func (r *studentRosterRepository) Count(ctx context.Context, stream models.Stream, semester int) (int64, error) {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *studentRosterRepository) WithinTx(ctx context.Context, fn func(tx StudentRosterRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&studentRosterRepository{db: tx, registry: r.registry})
	})
}
