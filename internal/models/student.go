package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// StudentStatus is the explicit activity flag on a roster record.
type StudentStatus string

// Possible student statuses. Legacy rows may carry an empty status; those are
// treated as active (see NormalizedStatus).
const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
)

// MigrationHop is one entry of a student's append-only promotion history.
type MigrationHop struct {
	FromSemester   int       `json:"from_semester"`
	ToSemester     int       `json:"to_semester"`
	MigratedDate   time.Time `json:"migrated_date"`
	MigrationBatch string    `json:"migration_batch"`
	Generation     int       `json:"generation"`
}

// StudentRecord is one student row inside a (stream, semester) roster bucket.
// Records never carry their bucket coordinates implicitly; stream and semester
// are stored so a row stays self-describing after a promotion moves it.
type StudentRecord struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	StudentID           string          `gorm:"size:10;uniqueIndex;not null" json:"student_id"`
	Name                string          `gorm:"size:255;not null" json:"name"`
	Stream              Stream          `gorm:"size:16;not null" json:"stream"`
	Semester            int             `gorm:"not null" json:"semester"`
	LanguageSubject     LanguageSubject `gorm:"size:32" json:"language_subject,omitempty"`
	LanguageGroup       string          `gorm:"size:64" json:"language_group,omitempty"`
	GuardianPhone       string          `gorm:"size:20" json:"guardian_phone,omitempty"`
	Status              StudentStatus   `gorm:"size:16" json:"status"`
	MigrationGeneration int             `gorm:"not null;default:0" json:"migration_generation"`
	OriginalSemester    int             `json:"original_semester"`
	LastMigrationDate   *time.Time      `json:"last_migration_date,omitempty"`
	AddedToSemesterDate *time.Time      `json:"added_to_semester_date,omitempty"`
	MigrationBatch      string          `gorm:"size:64" json:"migration_batch,omitempty"`
	MigrationHistory    datatypes.JSON  `json:"migration_history,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// NormalizedStatus maps legacy empty statuses to active. Rows written before
// the status column existed never carried an explicit flag.
func (s *StudentRecord) NormalizedStatus() StudentStatus {
	if s.Status == StudentStatusInactive {
		return StudentStatusInactive
	}
	return StudentStatusActive
}

// Active reports whether the record has not been deactivated.
func (s *StudentRecord) Active() bool {
	return s.NormalizedStatus() == StudentStatusActive
}

// History decodes the migration history column. A NULL column decodes to an
// empty history.
func (s *StudentRecord) History() ([]MigrationHop, error) {
	if len(s.MigrationHistory) == 0 {
		return nil, nil
	}

	var hops []MigrationHop
	if err := json.Unmarshal(s.MigrationHistory, &hops); err != nil {
		return nil, fmt.Errorf("decode migration history for %s: %w", s.StudentID, err)
	}
	return hops, nil
}

// SetHistory encodes the hop list back into the history column.
func (s *StudentRecord) SetHistory(hops []MigrationHop) error {
	payload, err := json.Marshal(hops)
	if err != nil {
		return fmt.Errorf("encode migration history for %s: %w", s.StudentID, err)
	}
	s.MigrationHistory = datatypes.JSON(payload)
	return nil
}

// NormalizeStudentID uppercases a raw identifier and validates the
// alphanumeric 6-10 character format shared by every stream.
func NormalizeStudentID(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if len(id) < 6 || len(id) > 10 {
		return "", fmt.Errorf("student id %q must be 6-10 characters", raw)
	}
	for _, r := range id {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("student id %q must be alphanumeric", raw)
		}
	}
	return id, nil
}
