package repository

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/rollcall-go-api/internal/models"
	"github.com/noah-isme/rollcall-go-api/internal/roster"
)

func setupRegistry(t *testing.T) *roster.Registry {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return roster.NewRegistry(db, zerolog.New(io.Discard))
}

func TestStudentRosterRepositoryCreateAndList(t *testing.T) {
	repo := NewStudentRosterRepository(setupRegistry(t))
	ctx := context.Background()

	record := models.StudentRecord{StudentID: "BCA21001", Name: "Asha", Stream: models.StreamBCA, Semester: 1, Status: models.StudentStatusActive}
	require.NoError(t, repo.Create(ctx, models.StreamBCA, 1, &record))

	inactive := models.StudentRecord{StudentID: "BCA21002", Name: "Ravi", Stream: models.StreamBCA, Semester: 1, Status: models.StudentStatusInactive}
	require.NoError(t, repo.Create(ctx, models.StreamBCA, 1, &inactive))

	active, err := repo.ListActive(ctx, models.StreamBCA, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "BCA21001", active[0].StudentID)

	all, err := repo.ListAll(ctx, models.StreamBCA, 1)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// The same student id in a different bucket is a separate record.
	other := models.StudentRecord{StudentID: "BCA21001", Name: "Asha", Stream: models.StreamBCA, Semester: 2, Status: models.StudentStatusActive}
	require.NoError(t, repo.Create(ctx, models.StreamBCA, 2, &other))
}

func TestStudentRosterRepositoryTriStateActive(t *testing.T) {
	registry := setupRegistry(t)
	repo := NewStudentRosterRepository(registry)
	ctx := context.Background()

	record := models.StudentRecord{StudentID: "BCA21001", Name: "Asha", Stream: models.StreamBCA, Semester: 1, Status: models.StudentStatusActive}
	require.NoError(t, repo.Create(ctx, models.StreamBCA, 1, &record))

	// Legacy rows written before the status column carried no flag at all.
	name, err := roster.BucketName(models.StreamBCA, 1, roster.EntityStudents)
	require.NoError(t, err)
	require.NoError(t, registry.DB().Exec(
		fmt.Sprintf("UPDATE %s SET status = NULL WHERE student_id = ?", name), "BCA21001").Error)

	active, err := repo.ListActive(ctx, models.StreamBCA, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, models.StudentStatusActive, active[0].Status, "legacy row normalized to active on read")
}

func TestStudentRosterRepositoryBulkInsertAndDeleteAll(t *testing.T) {
	repo := NewStudentRosterRepository(setupRegistry(t))
	ctx := context.Background()

	records := []models.StudentRecord{
		{StudentID: "BCA21001", Name: "Asha", Stream: models.StreamBCA, Semester: 3, Status: models.StudentStatusActive},
		{StudentID: "BCA21002", Name: "Ravi", Stream: models.StreamBCA, Semester: 3, Status: models.StudentStatusActive},
	}
	require.NoError(t, repo.BulkInsert(ctx, models.StreamBCA, 3, records))

	total, err := repo.Count(ctx, models.StreamBCA, 3)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	removed, err := repo.DeleteAll(ctx, models.StreamBCA, 3)
	require.NoError(t, err)
	require.Equal(t, int64(2), removed)

	total, err = repo.Count(ctx, models.StreamBCA, 3)
	require.NoError(t, err)
	require.Zero(t, total)

	require.NoError(t, repo.BulkInsert(ctx, models.StreamBCA, 3, nil), "empty bulk insert is a no-op")
}

func TestStudentRosterRepositoryWithinTxRollsBack(t *testing.T) {
	repo := NewStudentRosterRepository(setupRegistry(t))
	ctx := context.Background()

	seed := models.StudentRecord{StudentID: "BCA21001", Name: "Asha", Stream: models.StreamBCA, Semester: 1, Status: models.StudentStatusActive}
	require.NoError(t, repo.Create(ctx, models.StreamBCA, 1, &seed))
	require.NoError(t, repo.EnsureBucket(ctx, models.StreamBCA, 2))

	err := repo.WithinTx(ctx, func(tx StudentRosterRepository) error {
		moved := seed
		moved.ID = 0
		moved.Semester = 2
		if err := tx.BulkInsert(ctx, models.StreamBCA, 2, []models.StudentRecord{moved}); err != nil {
			return err
		}
		if _, err := tx.DeleteAll(ctx, models.StreamBCA, 1); err != nil {
			return err
		}
		return fmt.Errorf("forced failure")
	})
	require.Error(t, err)

	first, err := repo.Count(ctx, models.StreamBCA, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), first, "source bucket untouched after rollback")

	second, err := repo.Count(ctx, models.StreamBCA, 2)
	require.NoError(t, err)
	require.Zero(t, second, "target bucket untouched after rollback")
}
