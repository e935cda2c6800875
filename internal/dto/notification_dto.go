package dto

import "time"

// AbsenteeNotification is one outbound parent message for an absent student.
type AbsenteeNotification struct {
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name,omitempty"`
	GuardianPhone string    `json:"guardian_phone"`
	Message       string    `json:"message"`
	SentAt        time.Time `json:"sent_at"`
}

// NotificationDispatchReport summarises one absentee notification run.
type NotificationDispatchReport struct {
	Stream      string                 `json:"stream"`
	Semester    int                    `json:"semester"`
	SubjectCode string                 `json:"subject_code"`
	Date        string                 `json:"date"`
	Queued      int                    `json:"queued"`
	Skipped     int                    `json:"skipped"`
	Messages    []AbsenteeNotification `json:"messages"`
}
