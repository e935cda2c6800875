package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizedStatus(t *testing.T) {
	legacy := StudentRecord{}
	require.Equal(t, StudentStatusActive, legacy.NormalizedStatus())
	require.True(t, legacy.Active())

	inactive := StudentRecord{Status: StudentStatusInactive}
	require.Equal(t, StudentStatusInactive, inactive.NormalizedStatus())
	require.False(t, inactive.Active())

	active := StudentRecord{Status: StudentStatusActive}
	require.True(t, active.Active())
}

func TestMigrationHistoryRoundTrip(t *testing.T) {
	record := StudentRecord{StudentID: "BCA21001"}

	hops, err := record.History()
	require.NoError(t, err)
	require.Empty(t, hops, "missing column reads as empty history")

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, record.SetHistory([]MigrationHop{
		{FromSemester: 1, ToSemester: 2, MigratedDate: now, MigrationBatch: "b1", Generation: 1},
		{FromSemester: 2, ToSemester: 3, MigratedDate: now, MigrationBatch: "b2", Generation: 2},
	}))

	hops, err = record.History()
	require.NoError(t, err)
	require.Len(t, hops, 2)
	require.Equal(t, 1, hops[0].FromSemester)
	require.Equal(t, 3, hops[1].ToSemester)
	require.Equal(t, 2, hops[1].Generation)
}
