package roster

import (
	"fmt"
	"strings"

	"github.com/noah-isme/rollcall-go-api/internal/models"
)

// EntityType selects which kind of bucket a (stream, semester) pair addresses.
type EntityType string

// Bucket entity types.
const (
	EntityStudents   EntityType = "students"
	EntitySubjects   EntityType = "subjects"
	EntityAttendance EntityType = "attendance"
)

// BucketName derives the storage partition name for a (stream, semester,
// entity) triple. Names are deterministic and collision-free across the whole
// stream enumeration and semester range: the stream token, the semester number
// and the entity suffix each occupy a fixed position.
func BucketName(stream models.Stream, semester int, entity EntityType) (string, error) {
	if !stream.Valid() {
		return "", fmt.Errorf("unrecognized stream %q", stream)
	}
	if semester < 1 || semester > models.MaxSemester {
		return "", fmt.Errorf("semester %d out of range", semester)
	}

	switch entity {
	case EntityStudents, EntitySubjects:
		return fmt.Sprintf("%s_sem%d_%s", strings.ToLower(string(stream)), semester, entity), nil
	case EntityAttendance:
		return "", fmt.Errorf("attendance buckets require a subject code")
	default:
		return "", fmt.Errorf("unknown entity type %q", entity)
	}
}

// AttendanceBucketName derives the partition name for one subject's attendance
// inside a (stream, semester) pair. The subject code must already be
// normalized; it is lowercased into the name.
func AttendanceBucketName(stream models.Stream, semester int, subjectCode string) (string, error) {
	code, err := models.NormalizeSubjectCode(subjectCode)
	if err != nil {
		return "", err
	}

	base, err := BucketName(stream, semester, EntityStudents)
	if err != nil {
		return "", err
	}

	prefix := strings.TrimSuffix(base, string(EntityStudents))
	return prefix + string(EntityAttendance) + "_" + strings.ToLower(code), nil
}
