package models

import "time"

// AttendanceStatus marks a student's presence for one subject on one day.
type AttendanceStatus string

// Supported attendance statuses.
const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// Valid reports whether the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// AttendanceEntry is one row of a per-subject attendance bucket.
type AttendanceEntry struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	StudentID   string           `gorm:"size:10;index;not null" json:"student_id"`
	StudentName string           `gorm:"size:255" json:"student_name"`
	Date        time.Time        `gorm:"index;not null" json:"date"`
	Status      AttendanceStatus `gorm:"size:16;not null" json:"status"`
	Note        string           `gorm:"size:255" json:"note,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
