package roster

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
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestRegistryLazyCreation(t *testing.T) {
	db := setupTestDB(t)
	registry := NewRegistry(db, zerolog.New(io.Discard))

	name, err := BucketName(models.StreamBCA, 1, EntityStudents)
	require.NoError(t, err)
	require.False(t, registry.Ensured(name))

	require.NoError(t, registry.Ensure(context.Background(), name, &models.StudentRecord{}))
	require.True(t, registry.Ensured(name))
	require.True(t, db.Migrator().HasTable(name))

	// Second resolution is served from the cache.
	require.NoError(t, registry.Ensure(context.Background(), name, &models.StudentRecord{}))
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	registry := NewRegistry(setupTestDB(t), zerolog.New(io.Discard))
	require.Error(t, registry.Ensure(context.Background(), "", &models.StudentRecord{}))
}

func TestRegistryWithinTxRollsBack(t *testing.T) {
	db := setupTestDB(t)
	registry := NewRegistry(db, zerolog.New(io.Discard))

	name, err := BucketName(models.StreamBCA, 2, EntityStudents)
	require.NoError(t, err)
	require.NoError(t, registry.Ensure(context.Background(), name, &models.StudentRecord{}))

	err = registry.WithinTx(context.Background(), func(tx *gorm.DB) error {
		record := models.StudentRecord{StudentID: "BCA21001", Name: "Asha", Stream: models.StreamBCA, Semester: 2}
		if err := tx.Table(name).Create(&record).Error; err != nil {
			return err
		}
		return fmt.Errorf("forced failure")
	})
	require.Error(t, err)

	var total int64
	require.NoError(t, db.Table(name).Count(&total).Error)
	require.Zero(t, total, "rolled-back insert must not persist")
}
