package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rollcall-go-api/internal/dto"
	"github.com/noah-isme/rollcall-go-api/internal/models"
	"github.com/noah-isme/rollcall-go-api/internal/observability"
	"github.com/noah-isme/rollcall-go-api/internal/repository"
)

// Attendance service errors.
var (
	ErrInvalidDate       = errors.New("invalid attendance date")
	ErrUnknownStudents   = errors.New("attendance submitted for students outside the roster")
	ErrInvalidAttendance = errors.New("invalid attendance status")
)

const attendanceDateLayout = "2006-01-02"

// AttendanceService records per-subject attendance and computes absentee
// reports. Absentee reports are cached in Redis because parent notification
// and the dashboard both read them shortly after marking.
type AttendanceService interface {
	MarkDay(ctx context.Context, stream string, semester int, subjectCode string, req dto.MarkAttendanceRequest) ([]dto.AttendanceEntryResponse, error)
	ListDay(ctx context.Context, stream string, semester int, subjectCode, date string) ([]dto.AttendanceEntryResponse, error)
	Absentees(ctx context.Context, stream string, semester int, subjectCode, date string) (dto.AbsenteeReport, error)
}

type attendanceService struct {
	repo      repository.AttendanceRepository
	roster    repository.StudentRosterRepository
	redis     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewAttendanceService constructs the attendance service. The redis client is
// optional; without it absentee reports are computed on every request.
func NewAttendanceService(repo repository.AttendanceRepository, roster repository.StudentRosterRepository, redisClient *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		repo:      repo,
		roster:    roster,
		redis:     redisClient,
		cacheTTL:  cacheTTL,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "attendance_service").Logger(),
	}
}

func (s *attendanceService) MarkDay(ctx context.Context, rawStream string, semester int, subjectCode string, req dto.MarkAttendanceRequest) ([]dto.AttendanceEntryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	stream, err := resolveBucket(rawStream, semester)
	if err != nil {
		return nil, err
	}

	day, err := time.Parse(attendanceDateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.Date)
	}

	roster, err := s.roster.ListActive(ctx, stream, semester)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(roster))
	for _, student := range roster {
		names[student.StudentID] = student.Name
	}

	entries := make([]models.AttendanceEntry, 0, len(req.Marks))
	var unknown []string
	for _, mark := range req.Marks {
		studentID, err := models.NormalizeStudentID(mark.StudentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStudentID, err)
		}

		name, enrolled := names[studentID]
		if !enrolled {
			unknown = append(unknown, studentID)
			continue
		}

		status := models.AttendanceStatus(mark.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAttendance, mark.Status)
		}

		entries = append(entries, models.AttendanceEntry{
			StudentID:   studentID,
			StudentName: name,
			Status:      status,
			Note:        strings.TrimSpace(s.sanitizer.Sanitize(mark.Note)),
		})
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStudents, strings.Join(unknown, ", "))
	}

	if err := s.repo.ReplaceDay(ctx, stream, semester, subjectCode, day, entries); err != nil {
		return nil, err
	}

	observability.AttendanceMarked().WithLabelValues(string(stream)).Add(float64(len(entries)))
	s.invalidateAbsenteeCache(ctx, stream, semester, subjectCode, req.Date)

	s.logger.Info().
		Str("stream", string(stream)).
		Int("semester", semester).
		Str("subject", subjectCode).
		Str("date", req.Date).
		Int("marks", len(entries)).
		Msg("attendance recorded")

	return dto.NewAttendanceEntryResponseSlice(entries), nil
}

func (s *attendanceService) ListDay(ctx context.Context, rawStream string, semester int, subjectCode, date string) ([]dto.AttendanceEntryResponse, error) {
	stream, err := resolveBucket(rawStream, semester)
	if err != nil {
		return nil, err
	}

	day, err := time.Parse(attendanceDateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	entries, err := s.repo.ListByDate(ctx, stream, semester, subjectCode, day)
	if err != nil {
		return nil, err
	}

	return dto.NewAttendanceEntryResponseSlice(entries), nil
}

func (s *attendanceService) Absentees(ctx context.Context, rawStream string, semester int, subjectCode, date string) (dto.AbsenteeReport, error) {
	stream, err := resolveBucket(rawStream, semester)
	if err != nil {
		return dto.AbsenteeReport{}, err
	}

	day, err := time.Parse(attendanceDateLayout, date)
	if err != nil {
		return dto.AbsenteeReport{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	cacheKey := s.absenteeCacheKey(stream, semester, subjectCode, date)
	if report, ok := s.cachedReport(ctx, cacheKey); ok {
		observability.AbsenteeCache().WithLabelValues("hit").Inc()
		return report, nil
	}
	observability.AbsenteeCache().WithLabelValues("miss").Inc()

	entries, err := s.repo.AbsenteesByDate(ctx, stream, semester, subjectCode, day)
	if err != nil {
		return dto.AbsenteeReport{}, err
	}

	report := dto.AbsenteeReport{
		Stream:      string(stream),
		Semester:    semester,
		SubjectCode: subjectCode,
		Date:        date,
		Total:       len(entries),
		Absentees:   dto.NewAttendanceEntryResponseSlice(entries),
	}

	s.storeReport(ctx, cacheKey, report)
	return report, nil
}

func (s *attendanceService) absenteeCacheKey(stream models.Stream, semester int, subjectCode, date string) string {
	return fmt.Sprintf("rollcall:absentees:%s:%d:%s:%s", strings.ToLower(string(stream)), semester, strings.ToLower(subjectCode), date)
}

func (s *attendanceService) cachedReport(ctx context.Context, key string) (dto.AbsenteeReport, bool) {
	if s.redis == nil {
		return dto.AbsenteeReport{}, false
	}

	payload, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("absentee cache read failed")
		}
		return dto.AbsenteeReport{}, false
	}

	var report dto.AbsenteeReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return dto.AbsenteeReport{}, false
	}
	return report, true
}

func (s *attendanceService) storeReport(ctx context.Context, key string, report dto.AbsenteeReport) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("absentee cache write failed")
	}
}

func (s *attendanceService) invalidateAbsenteeCache(ctx context.Context, stream models.Stream, semester int, subjectCode, date string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, s.absenteeCacheKey(stream, semester, subjectCode, date)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("absentee cache invalidation failed")
	}
}
