package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/rollcall-go-api/internal/dto"
	"github.com/noah-isme/rollcall-go-api/internal/models"
	"github.com/noah-isme/rollcall-go-api/internal/repository"
)

// Subject service errors.
var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrSubjectExists   = errors.New("subject already registered in this bucket")
	ErrInvalidSubject  = errors.New("invalid subject code")
)

// SubjectService manages subject records inside one (stream, semester) bucket.
type SubjectService interface {
	Create(ctx context.Context, stream string, semester int, req dto.SubjectCreateRequest) (dto.SubjectResponse, error)
	List(ctx context.Context, stream string, semester int) ([]dto.SubjectResponse, error)
	Delete(ctx context.Context, stream string, semester int, code string) error
}

type subjectService struct {
	repo      repository.SubjectRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(repo repository.SubjectRepository, validate *validator.Validate, logger zerolog.Logger) SubjectService {
	return &subjectService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "subject_service").Logger(),
	}
}

func (s *subjectService) Create(ctx context.Context, rawStream string, semester int, req dto.SubjectCreateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SubjectResponse{}, err
	}

	stream, err := resolveBucket(rawStream, semester)
	if err != nil {
		return dto.SubjectResponse{}, err
	}

	code, err := models.NormalizeSubjectCode(req.Code)
	if err != nil {
		return dto.SubjectResponse{}, fmt.Errorf("%w: %v", ErrInvalidSubject, err)
	}

	if _, err := s.repo.GetByCode(ctx, stream, semester, code); err == nil {
		return dto.SubjectResponse{}, ErrSubjectExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubjectResponse{}, err
	}

	record := models.SubjectRecord{
		Code:       code,
		Name:       strings.TrimSpace(req.Name),
		Stream:     stream,
		Semester:   semester,
		IsLanguage: req.IsLanguage,
	}

	if err := s.repo.Create(ctx, stream, semester, &record); err != nil {
		return dto.SubjectResponse{}, err
	}

	s.logger.Info().
		Str("stream", string(stream)).
		Int("semester", semester).
		Str("code", code).
		Msg("subject registered")

	return dto.NewSubjectResponse(record), nil
}

func (s *subjectService) List(ctx context.Context, rawStream string, semester int) ([]dto.SubjectResponse, error) {
	stream, err := resolveBucket(rawStream, semester)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, stream, semester)
	if err != nil {
		return nil, err
	}

	return dto.NewSubjectResponseSlice(records), nil
}

func (s *subjectService) Delete(ctx context.Context, rawStream string, semester int, code string) error {
	stream, err := resolveBucket(rawStream, semester)
	if err != nil {
		return err
	}

	normalized, err := models.NormalizeSubjectCode(code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubject, err)
	}

	if err := s.repo.Delete(ctx, stream, semester, normalized); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}
	return nil
}
