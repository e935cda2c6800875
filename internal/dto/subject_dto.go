package dto

import "github.com/noah-isme/rollcall-go-api/internal/models"

// SubjectCreateRequest registers a subject inside a (stream, semester) bucket.
type SubjectCreateRequest struct {
	Code       string `json:"code" validate:"required,max=32"`
	Name       string `json:"name" validate:"required,max=255"`
	IsLanguage bool   `json:"is_language"`
}

// SubjectResponse is the API shape of a subject record.
type SubjectResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Stream     string `json:"stream"`
	Semester   int    `json:"semester"`
	IsLanguage bool   `json:"is_language"`
}

// NewSubjectResponse maps a subject record to its API shape.
func NewSubjectResponse(record models.SubjectRecord) SubjectResponse {
	return SubjectResponse{
		Code:       record.Code,
		Name:       record.Name,
		Stream:     string(record.Stream),
		Semester:   record.Semester,
		IsLanguage: record.IsLanguage,
	}
}

// NewSubjectResponseSlice maps a bucket listing.
func NewSubjectResponseSlice(records []models.SubjectRecord) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewSubjectResponse(record))
	}
	return responses
}
