package seeds_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	coursemodel "coursedig_backend/internals/features/courses/model"
	"coursedig_backend/internals/seeds"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&coursemodel.CourseModel{}))
	return db
}

const seedArray = `[
	{"title": "Data Engineering", "summary": "Pipelines and storage.", "level": "diploma", "duration_weeks": 24, "is_published": true},
	{"title": "Intro to Go", "summary": "The basics.", "level": "short_course", "duration_weeks": 6, "is_published": true}
]`

func TestDecodeCourseSeeds_AcceptsBareArray(t *testing.T) {
	items, err := seeds.DecodeCourseSeeds([]byte(seedArray))
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Data Engineering", items[0].Title)
}

func TestDecodeCourseSeeds_AcceptsItemsObject(t *testing.T) {
	items, err := seeds.DecodeCourseSeeds([]byte(`{"items": ` + seedArray + `}`))
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestDecodeCourseSeeds_RejectsOtherShapes(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":         ``,
		"whitespace":    "  \n ",
		"scalar":        `42`,
		"string":        `"courses"`,
		"wrong wrapper": `{"courses": ` + seedArray + `}`,
	} {
		_, err := seeds.DecodeCourseSeeds([]byte(raw))
		require.Error(t, err, "shape %q must be rejected", name)
	}
}

func TestSeedCourses_InsertsOnceAndSkipsExisting(t *testing.T) {
	db := openTestDB(t)

	path := filepath.Join(t.TempDir(), "courses.json")
	require.NoError(t, os.WriteFile(path, []byte(seedArray), 0o644))

	require.NoError(t, seeds.SeedCourses(db, path))
	var count int64
	require.NoError(t, db.Model(&coursemodel.CourseModel{}).Count(&count).Error)
	require.EqualValues(t, 2, count)

	// second run is a no-op
	require.NoError(t, seeds.SeedCourses(db, path))
	require.NoError(t, db.Model(&coursemodel.CourseModel{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestSeedCourses_SkipsInvalidEntries(t *testing.T) {
	db := openTestDB(t)

	raw := `[{"title": "", "summary": "x", "level": "diploma"},
	         {"title": "Valid", "summary": "y", "level": "made_up_level"},
	         {"title": "Kept", "summary": "z", "level": "degree"}]`
	path := filepath.Join(t.TempDir(), "courses.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	require.NoError(t, seeds.SeedCourses(db, path))
	var count int64
	require.NoError(t, db.Model(&coursemodel.CourseModel{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
