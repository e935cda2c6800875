package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStream(t *testing.T) {
	stream, err := ParseStream("BCA")
	require.NoError(t, err)
	require.Equal(t, StreamBCA, stream)

	_, err = ParseStream("MBA")
	require.Error(t, err)

	_, err = ParseStream("")
	require.Error(t, err)
}

func TestSemesterRange(t *testing.T) {
	for _, stream := range []Stream{StreamBCA, StreamBBA, StreamBCom, StreamBSc, StreamBA} {
		lo, hi := stream.SemesterRange()
		require.Equal(t, 1, lo)
		require.Equal(t, TerminalSemester, hi)
	}

	lo, hi := StreamPGDM.SemesterRange()
	require.Equal(t, TerminalSemester-1, lo)
	require.Equal(t, TerminalSemester, hi)

	require.True(t, StreamPGDM.ContainsSemester(5))
	require.True(t, StreamPGDM.ContainsSemester(6))
	require.False(t, StreamPGDM.ContainsSemester(4))
	require.True(t, StreamBCA.ContainsSemester(1))
	require.False(t, StreamBCA.ContainsSemester(7))
}

func TestDeriveLanguageGroup(t *testing.T) {
	require.Equal(t, "BCA-SEM3-HINDI", DeriveLanguageGroup(StreamBCA, 3, LanguageHindi))
	require.Equal(t, "", DeriveLanguageGroup(StreamBCA, 3, ""))
}

func TestNormalizeStudentID(t *testing.T) {
	id, err := NormalizeStudentID(" bca21001 ")
	require.NoError(t, err)
	require.Equal(t, "BCA21001", id)

	_, err = NormalizeStudentID("abc")
	require.Error(t, err, "too short")

	_, err = NormalizeStudentID("ABCDEFGHIJK")
	require.Error(t, err, "too long")

	_, err = NormalizeStudentID("BCA-21001")
	require.Error(t, err, "punctuation rejected")
}
