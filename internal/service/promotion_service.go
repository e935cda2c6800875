package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/rollcall-go-api/internal/dto"
	"github.com/noah-isme/rollcall-go-api/internal/models"
	"github.com/noah-isme/rollcall-go-api/internal/observability"
	"github.com/noah-isme/rollcall-go-api/internal/repository"
)

// ErrUnknownStream indicates the stream identifier is not part of the fixed
// enumeration. Rejected before any storage access.
var ErrUnknownStream = errors.New("unrecognized stream")

// ErrPromotionInProgress indicates another promotion run currently holds the
// stream. Concurrent runs for one stream are never allowed.
var ErrPromotionInProgress = errors.New("promotion already running for this stream")

// PromotionService advances a whole stream by one semester: graduates the
// terminal semester, then moves every active student up one bucket.
type PromotionService interface {
	Promote(ctx context.Context, stream string) (dto.PromotionReport, error)
}

type promotionService struct {
	repo   repository.StudentRosterRepository
	logger zerolog.Logger
	tracer trace.Tracer
	clock  func() time.Time

	mu      sync.Mutex
	running map[models.Stream]struct{}
}

// NewPromotionService constructs the promotion service.
func NewPromotionService(repo repository.StudentRosterRepository, logger zerolog.Logger) PromotionService {
	return &promotionService{
		repo:    repo,
		logger:  logger.With().Str("component", "promotion_service").Logger(),
		tracer:  otel.Tracer("github.com/noah-isme/rollcall-go-api/internal/service/promotion"),
		clock:   time.Now,
		running: make(map[models.Stream]struct{}),
	}
}

func (s *promotionService) Promote(ctx context.Context, rawStream string) (dto.PromotionReport, error) {
	stream, err := models.ParseStream(strings.ToUpper(strings.TrimSpace(rawStream)))
	if err != nil {
		return dto.PromotionReport{}, fmt.Errorf("%w: %q", ErrUnknownStream, rawStream)
	}

	if !s.acquire(stream) {
		return dto.PromotionReport{}, fmt.Errorf("%w: %s", ErrPromotionInProgress, stream)
	}
	defer s.release(stream)

	spanCtx, span := s.tracer.Start(ctx, "promotion.run", trace.WithAttributes(
		attribute.String("promotion.stream", string(stream)),
	))
	defer span.End()

	runAt := s.clock().UTC()
	batch := fmt.Sprintf("%s-%s-%s", stream, runAt.Format("20060102T150405Z"), uuid.NewString()[:8])
	logger := s.logger.With().Str("stream", string(stream)).Str("batch", batch).Logger()

	lo, hi := stream.SemesterRange()

	// Buckets are created lazily on first address; resolving them before the
	// transaction keeps DDL out of the transactional scope.
	for semester := lo; semester <= hi; semester++ {
		if err := s.repo.EnsureBucket(spanCtx, stream, semester); err != nil {
			span.RecordError(err)
			observability.PromotionRuns().WithLabelValues(string(stream), "error").Inc()
			return dto.PromotionReport{}, fmt.Errorf("resolve bucket for semester %d: %w", semester, err)
		}
	}

	report := dto.PromotionReport{
		Stream:           string(stream),
		MigrationBatch:   batch,
		PromotionFlow:    []string{},
		PromotionDetails: []dto.PromotionStep{},
	}

	// Graduation is best-effort: a failure here is logged and reported but
	// never blocks the promotion pairs below.
	if hi == models.TerminalSemester {
		step := s.graduate(spanCtx, stream, batch, logger)
		report.TotalGraduated = step.Count
		report.PromotionFlow = append(report.PromotionFlow, fmt.Sprintf("graduated semester %d (%d students)", models.TerminalSemester, step.Count))
		report.PromotionDetails = append(report.PromotionDetails, step)
	}

	// All pairs run inside one transaction, highest source semester first so
	// no student is picked up twice within a single run.
	var pairSteps []dto.PromotionStep
	err = s.repo.WithinTx(spanCtx, func(tx repository.StudentRosterRepository) error {
		for from := hi - 1; from >= lo; from-- {
			step, err := s.promotePair(spanCtx, tx, stream, from, from+1, batch, runAt)
			if err != nil {
				return fmt.Errorf("promotion pair %d->%d: %w", from, from+1, err)
			}
			pairSteps = append(pairSteps, step)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		observability.PromotionRuns().WithLabelValues(string(stream), "error").Inc()
		logger.Error().Err(err).Msg("promotion run aborted, all pair mutations rolled back")
		return dto.PromotionReport{}, err
	}

	for _, step := range pairSteps {
		report.TotalPromoted += step.Count
		report.PromotionFlow = append(report.PromotionFlow, fmt.Sprintf("promoted semester %d to %d (%d students)", step.FromSemester, step.ToSemester, step.Count))
		report.PromotionDetails = append(report.PromotionDetails, step)
	}
	report.Success = true

	observability.PromotionRuns().WithLabelValues(string(stream), "success").Inc()
	observability.StudentsPromoted().WithLabelValues(string(stream)).Add(float64(report.TotalPromoted))
	observability.StudentsGraduated().WithLabelValues(string(stream)).Add(float64(report.TotalGraduated))

	logger.Info().
		Int("promoted", report.TotalPromoted).
		Int("graduated", report.TotalGraduated).
		Msg("promotion run completed")

	return report, nil
}

// graduate wipes the terminal semester bucket. Errors are folded into the
// returned step instead of propagating.
func (s *promotionService) graduate(ctx context.Context, stream models.Stream, batch string, logger zerolog.Logger) dto.PromotionStep {
	step := dto.PromotionStep{
		Action:     dto.PromotionActionGraduate,
		Semester:   models.TerminalSemester,
		StudentIDs: []string{},
	}

	err := s.repo.WithinTx(ctx, func(tx repository.StudentRosterRepository) error {
		records, err := tx.ListAll(ctx, stream, models.TerminalSemester)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(records))
		for _, record := range records {
			ids = append(ids, record.StudentID)
		}

		if _, err := tx.DeleteAll(ctx, stream, models.TerminalSemester); err != nil {
			return err
		}

		step.Count = len(ids)
		step.StudentIDs = ids
		return nil
	})
	if err != nil {
		step.Count = 0
		step.StudentIDs = []string{}
		step.Error = err.Error()
		logger.Error().Err(err).Str("batch", batch).Msg("graduation step failed, continuing with promotion")
	}

	return step
}

// promotePair moves every active student from one bucket to the next. The
// source bucket is only cleared after the target insert succeeded.
func (s *promotionService) promotePair(ctx context.Context, tx repository.StudentRosterRepository, stream models.Stream, from, to int, batch string, runAt time.Time) (dto.PromotionStep, error) {
	step := dto.PromotionStep{
		Action:       dto.PromotionActionPromote,
		FromSemester: from,
		ToSemester:   to,
		StudentIDs:   []string{},
	}

	students, err := tx.ListActive(ctx, stream, from)
	if err != nil {
		return step, fmt.Errorf("read source bucket: %w", err)
	}

	promoted := make([]models.StudentRecord, 0, len(students))
	ids := make([]string, 0, len(students))
	for _, student := range students {
		record, err := buildPromotedRecord(student, stream, from, to, batch, runAt)
		if err != nil {
			return step, err
		}
		promoted = append(promoted, record)
		ids = append(ids, record.StudentID)
	}

	if err := tx.BulkInsert(ctx, stream, to, promoted); err != nil {
		return step, fmt.Errorf("insert into target bucket: %w", err)
	}

	if _, err := tx.DeleteAll(ctx, stream, from); err != nil {
		return step, fmt.Errorf("clear source bucket: %w", err)
	}

	step.Count = len(promoted)
	step.StudentIDs = ids
	return step, nil
}

// buildPromotedRecord derives the target-bucket copy of a student: semester
// advanced, generation bumped, audit trail appended. The original semester is
// fixed the first time a student is ever promoted.
func buildPromotedRecord(student models.StudentRecord, stream models.Stream, from, to int, batch string, runAt time.Time) (models.StudentRecord, error) {
	history, err := student.History()
	if err != nil {
		return models.StudentRecord{}, err
	}

	generation := student.MigrationGeneration + 1
	original := student.OriginalSemester
	if original == 0 {
		original = from
	}

	record := student
	record.ID = 0
	record.Semester = to
	record.LanguageGroup = models.DeriveLanguageGroup(stream, to, student.LanguageSubject)
	record.Status = student.NormalizedStatus()
	record.MigrationGeneration = generation
	record.OriginalSemester = original
	record.LastMigrationDate = &runAt
	record.AddedToSemesterDate = &runAt
	record.MigrationBatch = batch
	record.CreatedAt = time.Time{}
	record.UpdatedAt = time.Time{}

	history = append(history, models.MigrationHop{
		FromSemester:   from,
		ToSemester:     to,
		MigratedDate:   runAt,
		MigrationBatch: batch,
		Generation:     generation,
	})
	if err := record.SetHistory(history); err != nil {
		return models.StudentRecord{}, err
	}

	return record, nil
}

func (s *promotionService) acquire(stream models.Stream) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.running[stream]; busy {
		return false
	}
	s.running[stream] = struct{}{}
	return true
}

func (s *promotionService) release(stream models.Stream) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, stream)
}
