package dto

import (
	"time"

	"github.com/noah-isme/rollcall-go-api/internal/models"
)

// StudentCreateRequest enrolls a student into a (stream, semester) bucket.
type StudentCreateRequest struct {
	StudentID       string `json:"student_id" validate:"required"`
	Name            string `json:"name" validate:"required,max=255"`
	LanguageSubject string `json:"language_subject,omitempty"`
	GuardianPhone   string `json:"guardian_phone,omitempty"`
}

// StudentUpdateRequest patches mutable student fields. Lifecycle metadata
// (original semester, migration history) is never writable through the API.
type StudentUpdateRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=255"`
	LanguageSubject *string `json:"language_subject,omitempty"`
	GuardianPhone   *string `json:"guardian_phone,omitempty"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// StudentResponse is the API shape of a roster record.
type StudentResponse struct {
	StudentID           string                `json:"student_id"`
	Name                string                `json:"name"`
	Stream              string                `json:"stream"`
	Semester            int                   `json:"semester"`
	LanguageSubject     string                `json:"language_subject,omitempty"`
	LanguageGroup       string                `json:"language_group,omitempty"`
	GuardianPhone       string                `json:"guardian_phone,omitempty"`
	Status              string                `json:"status"`
	MigrationGeneration int                   `json:"migration_generation"`
	OriginalSemester    int                   `json:"original_semester"`
	LastMigrationDate   *time.Time            `json:"last_migration_date,omitempty"`
	MigrationBatch      string                `json:"migration_batch,omitempty"`
	MigrationHistory    []models.MigrationHop `json:"migration_history"`
}

// NewStudentResponse maps a roster record to its API shape. A history column
// that fails to decode is surfaced as empty rather than failing the read.
func NewStudentResponse(record models.StudentRecord) StudentResponse {
	hops, err := record.History()
	if err != nil {
		hops = nil
	}
	if hops == nil {
		hops = []models.MigrationHop{}
	}

	return StudentResponse{
		StudentID:           record.StudentID,
		Name:                record.Name,
		Stream:              string(record.Stream),
		Semester:            record.Semester,
		LanguageSubject:     string(record.LanguageSubject),
		LanguageGroup:       record.LanguageGroup,
		GuardianPhone:       record.GuardianPhone,
		Status:              string(record.NormalizedStatus()),
		MigrationGeneration: record.MigrationGeneration,
		OriginalSemester:    record.OriginalSemester,
		LastMigrationDate:   record.LastMigrationDate,
		MigrationBatch:      record.MigrationBatch,
		MigrationHistory:    hops,
	}
}

// NewStudentResponseSlice maps a bucket listing.
func NewStudentResponseSlice(records []models.StudentRecord) []StudentResponse {
	responses := make([]StudentResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewStudentResponse(record))
	}
	return responses
}
