package models

import (
	"fmt"
	"strings"
	"time"
)

// SubjectRecord is one subject row inside a (stream, semester) roster bucket.
type SubjectRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Stream     Stream    `gorm:"size:16;not null" json:"stream"`
	Semester   int       `gorm:"not null" json:"semester"`
	IsLanguage bool      `json:"is_language"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NormalizeSubjectCode uppercases a subject code and restricts it to the
// characters that are safe inside a bucket name.
func NormalizeSubjectCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", fmt.Errorf("subject code must not be empty")
	}
	if len(code) > 32 {
		return "", fmt.Errorf("subject code %q too long", raw)
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return "", fmt.Errorf("subject code %q must be alphanumeric", raw)
		}
	}
	return code, nil
}
