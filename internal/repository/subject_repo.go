package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/rollcall-go-api/internal/models"
	"github.com/noah-isme/rollcall-go-api/internal/roster"
)

// SubjectRepository provides access to the per-bucket subject rosters.
type SubjectRepository interface {
	List(ctx context.Context, stream models.Stream, semester int) ([]models.SubjectRecord, error)
	GetByCode(ctx context.Context, stream models.Stream, semester int, code string) (models.SubjectRecord, error)
	Create(ctx context.Context, stream models.Stream, semester int, record *models.SubjectRecord) error
	Delete(ctx context.Context, stream models.Stream, semester int, code string) error
}

type subjectRepository struct {
	db       *gorm.DB
	registry *roster.Registry
}

// NewSubjectRepository constructs the subject repository.
func NewSubjectRepository(registry *roster.Registry) SubjectRepository {
	return &subjectRepository{db: registry.DB(), registry: registry}
}

func (r *subjectRepository) bucket(ctx context.Context, stream models.Stream, semester int) (*gorm.DB, error) {
	name, err := roster.BucketName(stream, semester, roster.EntitySubjects)
	if err != nil {
		return nil, err
	}
	if err := r.registry.Ensure(ctx, name, &models.SubjectRecord{}); err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Table(name), nil
}

func (r *subjectRepository) List(ctx context.Context, stream models.Stream, semester int) ([]models.SubjectRecord, error) {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return nil, err
	}

	var records []models.SubjectRecord
	if err := query.Order("code").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *subjectRepository) GetByCode(ctx context.Context, stream models.Stream, semester int, code string) (models.SubjectRecord, error) {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return models.SubjectRecord{}, err
	}

	var record models.SubjectRecord
	if err := query.Where("code = ?", code).First(&record).Error; err != nil {
		return models.SubjectRecord{}, err
	}
	return record, nil
}

func (r *subjectRepository) Create(ctx context.Context, stream models.Stream, semester int, record *models.SubjectRecord) error {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return err
	}
	return query.Create(record).Error
}

func (r *subjectRepository) Delete(ctx context.Context, stream models.Stream, semester int, code string) error {
	query, err := r.bucket(ctx, stream, semester)
	if err != nil {
		return err
	}

	result := query.Where("code = ?", code).Delete(&models.SubjectRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
