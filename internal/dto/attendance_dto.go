package dto

import (
	"time"

	"github.com/noah-isme/rollcall-go-api/internal/models"
)

// AttendanceMark is one student's mark inside a bulk attendance submission.
type AttendanceMark struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent"`
	Note      string `json:"note,omitempty" validate:"max=255"`
}

// MarkAttendanceRequest records one subject's attendance for one day.
type MarkAttendanceRequest struct {
	Date  string           `json:"date" validate:"required,datetime=2006-01-02"`
	Marks []AttendanceMark `json:"marks" validate:"required,min=1,dive"`
}

// AttendanceEntryResponse is the API shape of one attendance row.
type AttendanceEntryResponse struct {
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
}

// NewAttendanceEntryResponse maps an attendance row to its API shape.
func NewAttendanceEntryResponse(entry models.AttendanceEntry) AttendanceEntryResponse {
	return AttendanceEntryResponse{
		StudentID:   entry.StudentID,
		StudentName: entry.StudentName,
		Date:        entry.Date,
		Status:      string(entry.Status),
		Note:        entry.Note,
	}
}

// NewAttendanceEntryResponseSlice maps a day listing.
func NewAttendanceEntryResponseSlice(entries []models.AttendanceEntry) []AttendanceEntryResponse {
	responses := make([]AttendanceEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewAttendanceEntryResponse(entry))
	}
	return responses
}

// AbsenteeReport lists the absentees computed for one subject and day.
type AbsenteeReport struct {
	Stream      string                    `json:"stream"`
	Semester    int                       `json:"semester"`
	SubjectCode string                    `json:"subject_code"`
	Date        string                    `json:"date"`
	Total       int                       `json:"total"`
	Absentees   []AttendanceEntryResponse `json:"absentees"`
}
