package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/rollcall-go-api/internal/dto"
	"github.com/noah-isme/rollcall-go-api/internal/models"
	"github.com/noah-isme/rollcall-go-api/internal/observability"
	"github.com/noah-isme/rollcall-go-api/internal/repository"
	"github.com/noah-isme/rollcall-go-api/internal/utils"
)

// NotificationSubject is the NATS subject absentee events are published on.
// The SMS gateway worker consumes it out of process.
const NotificationSubject = "rollcall.notifications.absentee"

// NotificationService turns absentee reports into parent notifications and
// hands them to the delivery pipeline.
type NotificationService interface {
	NotifyAbsentees(ctx context.Context, stream string, semester int, subjectCode, date string) (dto.NotificationDispatchReport, error)
}

type notificationService struct {
	attendance AttendanceService
	roster     repository.StudentRosterRepository
	nats       *nats.Conn
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewNotificationService constructs the notification service. The NATS
// connection is optional; without it messages are built and reported but not
// queued anywhere.
func NewNotificationService(attendance AttendanceService, roster repository.StudentRosterRepository, natsConn *nats.Conn, logger zerolog.Logger) NotificationService {
	return &notificationService{
		attendance: attendance,
		roster:     roster,
		nats:       natsConn,
		logger:     logger.With().Str("component", "notification_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/rollcall-go-api/internal/service/notification"),
	}
}

func (s *notificationService) NotifyAbsentees(ctx context.Context, rawStream string, semester int, subjectCode, date string) (dto.NotificationDispatchReport, error) {
	spanCtx, span := s.tracer.Start(ctx, "notifications.absentees", trace.WithAttributes(
		attribute.String("notification.stream", rawStream),
		attribute.String("notification.date", date),
	))
	defer span.End()

	report, err := s.attendance.Absentees(spanCtx, rawStream, semester, subjectCode, date)
	if err != nil {
		span.RecordError(err)
		return dto.NotificationDispatchReport{}, err
	}

	stream := models.Stream(report.Stream)
	roster, err := s.roster.ListActive(spanCtx, stream, semester)
	if err != nil {
		span.RecordError(err)
		return dto.NotificationDispatchReport{}, err
	}
	phones := make(map[string]string, len(roster))
	for _, student := range roster {
		phones[student.StudentID] = student.GuardianPhone
	}

	dispatch := dto.NotificationDispatchReport{
		Stream:      report.Stream,
		Semester:    semester,
		SubjectCode: report.SubjectCode,
		Date:        report.Date,
		Messages:    []dto.AbsenteeNotification{},
	}

	now := time.Now().UTC()
	for _, absentee := range report.Absentees {
		phone, err := utils.NormalizePhone(phones[absentee.StudentID])
		if err != nil {
			dispatch.Skipped++
			s.logger.Warn().
				Str("student_id", absentee.StudentID).
				Msg("skipping absentee notification, no usable guardian phone")
			continue
		}

		message := dto.AbsenteeNotification{
			StudentID:     absentee.StudentID,
			StudentName:   absentee.StudentName,
			GuardianPhone: phone,
			Message:       buildAbsenteeMessage(absentee.StudentName, report.SubjectCode, report.Date),
			SentAt:        now,
		}

		if err := s.publish(message); err != nil {
			span.RecordError(err)
			return dispatch, fmt.Errorf("queue notification for %s: %w", absentee.StudentID, err)
		}

		dispatch.Queued++
		dispatch.Messages = append(dispatch.Messages, message)
	}

	observability.NotificationsQueued().WithLabelValues(report.Stream).Add(float64(dispatch.Queued))

	s.logger.Info().
		Str("stream", report.Stream).
		Int("semester", semester).
		Str("subject", report.SubjectCode).
		Int("queued", dispatch.Queued).
		Int("skipped", dispatch.Skipped).
		Msg("absentee notifications dispatched")

	return dispatch, nil
}

func (s *notificationService) publish(message dto.AbsenteeNotification) error {
	if s.nats == nil {
		return nil
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.nats.Publish(NotificationSubject, payload)
}

func buildAbsenteeMessage(studentName, subjectCode, date string) string {
	name := studentName
	if name == "" {
		name = "your ward"
	}
	return fmt.Sprintf("Dear parent, %s was marked absent for %s on %s. Please contact the college office if this is unexpected.", name, subjectCode, date)
}
