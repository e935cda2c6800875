package models

import "fmt"

// Stream identifies an academic programme track.
type Stream string

// Recognized programme streams.
const (
	StreamBCA  Stream = "BCA"
	StreamBBA  Stream = "BBA"
	StreamBCom Stream = "BCOM"
	StreamBSc  Stream = "BSC"
	StreamBA   Stream = "BA"
	StreamPGDM Stream = "PGDM"
)

// TerminalSemester is the final semester of every stream; students in it are
// graduated (removed) by a promotion run.
const TerminalSemester = 6

// MaxSemester bounds the semester field for validation. Most streams only use
// semesters 1 through TerminalSemester.
const MaxSemester = 8

// AllStreams lists every recognized stream.
func AllStreams() []Stream {
	return []Stream{StreamBCA, StreamBBA, StreamBCom, StreamBSc, StreamBA, StreamPGDM}
}

// Valid reports whether the stream is one of the recognized values.
func (s Stream) Valid() bool {
	switch s {
	case StreamBCA, StreamBBA, StreamBCom, StreamBSc, StreamBA, StreamPGDM:
		return true
	default:
		return false
	}
}

// SemesterRange returns the inclusive semester span for the stream. PGDM
// cohorts join at semester 5 and share the common terminal semester.
func (s Stream) SemesterRange() (int, int) {
	if s == StreamPGDM {
		return TerminalSemester - 1, TerminalSemester
	}
	return 1, TerminalSemester
}

// ContainsSemester reports whether the semester falls inside the stream's span.
func (s Stream) ContainsSemester(semester int) bool {
	lo, hi := s.SemesterRange()
	return semester >= lo && semester <= hi
}

// ParseStream validates a raw stream identifier.
func ParseStream(raw string) (Stream, error) {
	stream := Stream(raw)
	if !stream.Valid() {
		return "", fmt.Errorf("unrecognized stream %q", raw)
	}
	return stream, nil
}

// LanguageSubject is an optional language elective attached to a student.
type LanguageSubject string

// Supported language electives.
const (
	LanguageHindi      LanguageSubject = "HINDI"
	LanguageKannada    LanguageSubject = "KANNADA"
	LanguageSanskrit   LanguageSubject = "SANSKRIT"
	LanguageAddEnglish LanguageSubject = "ADD_ENGLISH"
)

// Valid reports whether the elective is a supported value. The empty value is
// valid because the elective is optional.
func (l LanguageSubject) Valid() bool {
	switch l {
	case "", LanguageHindi, LanguageKannada, LanguageSanskrit, LanguageAddEnglish:
		return true
	default:
		return false
	}
}

// DeriveLanguageGroup builds the elective grouping label for a student. It is
// empty when the student carries no language elective.
func DeriveLanguageGroup(stream Stream, semester int, language LanguageSubject) string {
	if language == "" {
		return ""
	}
	return fmt.Sprintf("%s-SEM%d-%s", stream, semester, language)
}
