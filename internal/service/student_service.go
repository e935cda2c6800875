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
	"github.com/noah-isme/rollcall-go-api/internal/utils"
)

// Student service errors.
var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrStudentExists    = errors.New("student already enrolled in this bucket")
	ErrInvalidStudentID = errors.New("invalid student id")
	ErrInvalidSemester  = errors.New("semester outside the stream's range")
	ErrInvalidLanguage  = errors.New("unsupported language subject")
	ErrInvalidPhone     = errors.New("invalid guardian phone number")
)

// StudentService manages roster records inside one (stream, semester) bucket.
type StudentService interface {
	Enroll(ctx context.Context, stream string, semester int, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	List(ctx context.Context, stream string, semester int, activeOnly bool) ([]dto.StudentResponse, error)
	Get(ctx context.Context, stream string, semester int, studentID string) (dto.StudentResponse, error)
	Update(ctx context.Context, stream string, semester int, studentID string, req dto.StudentUpdateRequest) (dto.StudentResponse, error)
}

type studentService struct {
	repo      repository.StudentRosterRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo repository.StudentRosterRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func resolveBucket(rawStream string, semester int) (models.Stream, error) {
	stream, err := models.ParseStream(strings.ToUpper(strings.TrimSpace(rawStream)))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownStream, rawStream)
	}
	if !stream.ContainsSemester(semester) {
		return "", fmt.Errorf("%w: %s has no semester %d", ErrInvalidSemester, stream, semester)
	}
	return stream, nil
}

func (s *studentService) Enroll(ctx context.Context, rawStream string, semester int, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	stream, err := resolveBucket(rawStream, semester)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	studentID, err := models.NormalizeStudentID(req.StudentID)
	if err != nil {
		return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrInvalidStudentID, err)
	}

	language := models.LanguageSubject(strings.ToUpper(strings.TrimSpace(req.LanguageSubject)))
	if !language.Valid() {
		return dto.StudentResponse{}, fmt.Errorf("%w: %q", ErrInvalidLanguage, req.LanguageSubject)
	}

	phone := ""
	if req.GuardianPhone != "" {
		phone, err = utils.NormalizePhone(req.GuardianPhone)
		if err != nil {
			return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrInvalidPhone, err)
		}
	}

	if _, err := s.repo.GetByStudentID(ctx, stream, semester, studentID); err == nil {
		return dto.StudentResponse{}, ErrStudentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	record := models.StudentRecord{
		StudentID:        studentID,
		Name:             strings.TrimSpace(req.Name),
		Stream:           stream,
		Semester:         semester,
		LanguageSubject:  language,
		LanguageGroup:    models.DeriveLanguageGroup(stream, semester, language),
		GuardianPhone:    phone,
		Status:           models.StudentStatusActive,
		OriginalSemester: semester,
	}

	if err := s.repo.Create(ctx, stream, semester, &record); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().
		Str("stream", string(stream)).
		Int("semester", semester).
		Str("student_id", studentID).
		Msg("student enrolled")

	return dto.NewStudentResponse(record), nil
}

func (s *studentService) List(ctx context.Context, rawStream string, semester int, activeOnly bool) ([]dto.StudentResponse, error) {
	stream, err := resolveBucket(rawStream, semester)
	if err != nil {
		return nil, err
	}

	var records []models.StudentRecord
	if activeOnly {
		records, err = s.repo.ListActive(ctx, stream, semester)
	} else {
		records, err = s.repo.ListAll(ctx, stream, semester)
	}
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(records), nil
}

func (s *studentService) Get(ctx context.Context, rawStream string, semester int, studentID string) (dto.StudentResponse, error) {
	stream, err := resolveBucket(rawStream, semester)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	normalized, err := models.NormalizeStudentID(studentID)
	if err != nil {
		return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrInvalidStudentID, err)
	}

	record, err := s.repo.GetByStudentID(ctx, stream, semester, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(record), nil
}

func (s *studentService) Update(ctx context.Context, rawStream string, semester int, studentID string, req dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	stream, err := resolveBucket(rawStream, semester)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	normalized, err := models.NormalizeStudentID(studentID)
	if err != nil {
		return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrInvalidStudentID, err)
	}

	record, err := s.repo.GetByStudentID(ctx, stream, semester, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if req.Name != nil {
		record.Name = strings.TrimSpace(*req.Name)
	}
	if req.LanguageSubject != nil {
		language := models.LanguageSubject(strings.ToUpper(strings.TrimSpace(*req.LanguageSubject)))
		if !language.Valid() {
			return dto.StudentResponse{}, fmt.Errorf("%w: %q", ErrInvalidLanguage, *req.LanguageSubject)
		}
		record.LanguageSubject = language
		record.LanguageGroup = models.DeriveLanguageGroup(stream, semester, language)
	}
	if req.GuardianPhone != nil {
		phone := ""
		if *req.GuardianPhone != "" {
			phone, err = utils.NormalizePhone(*req.GuardianPhone)
			if err != nil {
				return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrInvalidPhone, err)
			}
		}
		record.GuardianPhone = phone
	}
	if req.Status != nil {
		record.Status = models.StudentStatus(*req.Status)
	}

	if err := s.repo.Update(ctx, stream, semester, &record); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(record), nil
}
