package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rollcall-go-api/internal/dto"
	"github.com/noah-isme/rollcall-go-api/internal/models"
)

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func TestStudentServiceEnroll(t *testing.T) {
	repo := setupRosterRepo(t)
	svc := NewStudentService(repo, testValidator(), testLogger())
	ctx := context.Background()

	resp, err := svc.Enroll(ctx, "bca", 3, dto.StudentCreateRequest{
		StudentID:       " bca21001 ",
		Name:            "  Asha Rao ",
		LanguageSubject: "hindi",
		GuardianPhone:   "98765 43210",
	})
	require.NoError(t, err)
	require.Equal(t, "BCA21001", resp.StudentID)
	require.Equal(t, "Asha Rao", resp.Name)
	require.Equal(t, "HINDI", resp.LanguageSubject)
	require.Equal(t, "BCA-SEM3-HINDI", resp.LanguageGroup)
	require.Equal(t, "+919876543210", resp.GuardianPhone)
	require.Equal(t, "active", resp.Status)
	require.Equal(t, 3, resp.OriginalSemester)
	require.Empty(t, resp.MigrationHistory)

	stored, err := repo.GetByStudentID(ctx, models.StreamBCA, 3, "BCA21001")
	require.NoError(t, err)
	require.Equal(t, models.StudentStatusActive, stored.Status)
}

func TestStudentServiceEnrollRejectsDuplicates(t *testing.T) {
	svc := NewStudentService(setupRosterRepo(t), testValidator(), testLogger())
	ctx := context.Background()

	req := dto.StudentCreateRequest{StudentID: "BCA21001", Name: "Asha"}
	_, err := svc.Enroll(ctx, "BCA", 1, req)
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, "BCA", 1, req)
	require.ErrorIs(t, err, ErrStudentExists)

	// Same id in a different bucket is a fresh enrollment.
	_, err = svc.Enroll(ctx, "BCA", 2, req)
	require.NoError(t, err)
}

func TestStudentServiceEnrollValidation(t *testing.T) {
	svc := NewStudentService(setupRosterRepo(t), testValidator(), testLogger())
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "BCA", 1, dto.StudentCreateRequest{StudentID: "x1", Name: "Too Short"})
	require.ErrorIs(t, err, ErrInvalidStudentID)

	_, err = svc.Enroll(ctx, "BCA", 1, dto.StudentCreateRequest{StudentID: "BCA21001", Name: "Asha", LanguageSubject: "FRENCH"})
	require.ErrorIs(t, err, ErrInvalidLanguage)

	_, err = svc.Enroll(ctx, "BCA", 1, dto.StudentCreateRequest{StudentID: "BCA21002", Name: "Asha", GuardianPhone: "12345"})
	require.ErrorIs(t, err, ErrInvalidPhone)

	_, err = svc.Enroll(ctx, "MBA", 1, dto.StudentCreateRequest{StudentID: "MBA21001", Name: "Asha"})
	require.ErrorIs(t, err, ErrUnknownStream)

	_, err = svc.Enroll(ctx, "PGDM", 2, dto.StudentCreateRequest{StudentID: "PGDM21001", Name: "Asha"})
	require.ErrorIs(t, err, ErrInvalidSemester, "PGDM only runs semesters 5 and 6")
}

func TestStudentServiceListAndGet(t *testing.T) {
	repo := setupRosterRepo(t)
	svc := NewStudentService(repo, testValidator(), testLogger())
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "BCA", 1, dto.StudentCreateRequest{StudentID: "BCA21001", Name: "Asha"})
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, "BCA", 1, dto.StudentCreateRequest{StudentID: "BCA21002", Name: "Ravi"})
	require.NoError(t, err)

	inactive := "inactive"
	_, err = svc.Update(ctx, "BCA", 1, "BCA21002", dto.StudentUpdateRequest{Status: &inactive})
	require.NoError(t, err)

	active, err := svc.List(ctx, "BCA", 1, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "BCA21001", active[0].StudentID)

	all, err := svc.List(ctx, "BCA", 1, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	got, err := svc.Get(ctx, "BCA", 1, "bca21002")
	require.NoError(t, err)
	require.Equal(t, "inactive", got.Status)

	_, err = svc.Get(ctx, "BCA", 1, "BCA21999")
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentServiceUpdate(t *testing.T) {
	repo := setupRosterRepo(t)
	svc := NewStudentService(repo, testValidator(), testLogger())
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "BCA", 3, dto.StudentCreateRequest{
		StudentID:       "BCA21001",
		Name:            "Asha",
		LanguageSubject: "HINDI",
		GuardianPhone:   "9876543210",
	})
	require.NoError(t, err)

	// A language change re-derives the group for the current bucket.
	language := "kannada"
	resp, err := svc.Update(ctx, "BCA", 3, "BCA21001", dto.StudentUpdateRequest{LanguageSubject: &language})
	require.NoError(t, err)
	require.Equal(t, "KANNADA", resp.LanguageSubject)
	require.Equal(t, "BCA-SEM3-KANNADA", resp.LanguageGroup)

	// Clearing the guardian phone persists the empty value.
	empty := ""
	resp, err = svc.Update(ctx, "BCA", 3, "BCA21001", dto.StudentUpdateRequest{GuardianPhone: &empty})
	require.NoError(t, err)
	require.Empty(t, resp.GuardianPhone)

	stored, err := repo.GetByStudentID(ctx, models.StreamBCA, 3, "BCA21001")
	require.NoError(t, err)
	require.Empty(t, stored.GuardianPhone)
	require.Equal(t, 3, stored.OriginalSemester, "lifecycle metadata untouched by updates")

	bad := "FRENCH"
	_, err = svc.Update(ctx, "BCA", 3, "BCA21001", dto.StudentUpdateRequest{LanguageSubject: &bad})
	require.ErrorIs(t, err, ErrInvalidLanguage)

	name := "Asha R"
	_, err = svc.Update(ctx, "BCA", 3, "BCA21404", dto.StudentUpdateRequest{Name: &name})
	require.ErrorIs(t, err, ErrStudentNotFound)
}
