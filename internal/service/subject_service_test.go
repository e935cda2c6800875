package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/rollcall-go-api/internal/dto"
	"github.com/noah-isme/rollcall-go-api/internal/repository"
	"github.com/noah-isme/rollcall-go-api/internal/roster"
)

func setupSubjectRepo(t *testing.T) repository.SubjectRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return repository.NewSubjectRepository(roster.NewRegistry(db, testLogger()))
}

func TestSubjectServiceCreateAndList(t *testing.T) {
	svc := NewSubjectService(setupSubjectRepo(t), testValidator(), testLogger())
	ctx := context.Background()

	resp, err := svc.Create(ctx, "bca", 3, dto.SubjectCreateRequest{Code: " cs301 ", Name: "Data Structures"})
	require.NoError(t, err)
	require.Equal(t, "CS301", resp.Code)
	require.Equal(t, "BCA", resp.Stream)

	_, err = svc.Create(ctx, "BCA", 3, dto.SubjectCreateRequest{Code: "CS301", Name: "Data Structures"})
	require.ErrorIs(t, err, ErrSubjectExists)

	// The same code in another bucket is a distinct subject.
	_, err = svc.Create(ctx, "BCA", 4, dto.SubjectCreateRequest{Code: "CS301", Name: "Data Structures II"})
	require.NoError(t, err)

	subjects, err := svc.List(ctx, "BCA", 3)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Equal(t, "CS301", subjects[0].Code)
}

func TestSubjectServiceRejectsBadCodes(t *testing.T) {
	svc := NewSubjectService(setupSubjectRepo(t), testValidator(), testLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, "BCA", 3, dto.SubjectCreateRequest{Code: "bad;drop", Name: "Injection"})
	require.ErrorIs(t, err, ErrInvalidSubject)

	_, err = svc.Create(ctx, "MBA", 3, dto.SubjectCreateRequest{Code: "CS301", Name: "Data Structures"})
	require.ErrorIs(t, err, ErrUnknownStream)
}

func TestSubjectServiceDelete(t *testing.T) {
	svc := NewSubjectService(setupSubjectRepo(t), testValidator(), testLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, "BCA", 3, dto.SubjectCreateRequest{Code: "CS301", Name: "Data Structures"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "BCA", 3, "cs301"))
	require.ErrorIs(t, svc.Delete(ctx, "BCA", 3, "CS301"), ErrSubjectNotFound)

	subjects, err := svc.List(ctx, "BCA", 3)
	require.NoError(t, err)
	require.Empty(t, subjects)
}
