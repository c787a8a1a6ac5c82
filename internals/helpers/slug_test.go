package helper_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	coursemodel "coursedig_backend/internals/features/courses/model"
	helper "coursedig_backend/internals/helpers"
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

var courseSlugOpts = helper.SlugOptions{
	Table:            "courses",
	SlugColumn:       "course_slug",
	SoftDeleteColumn: "course_deleted_at",
	MaxLen:           120,
	DefaultBase:      "course",
}

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Data Engineering 101":     "data-engineering-101",
		"  Intro to  Go!  ":        "intro-to-go",
		"C++ & Systems":            "c-systems",
		"---":                      "",
	}
	for in, want := range cases {
		require.Equal(t, want, helper.GenerateSlug(in), "input %q", in)
	}
}

func TestGenerateUniqueSlug_SuffixesOnCollision(t *testing.T) {
	db := openTestDB(t)

	mk := func(slug string) {
		require.NoError(t, db.Create(&coursemodel.CourseModel{
			CourseSlug:    slug,
			CourseTitle:   "T",
			CourseSummary: "summary text here",
			CourseLevel:   coursemodel.CourseLevelShort,
		}).Error)
	}

	slug, err := helper.GenerateUniqueSlug(db, courseSlugOpts, "Data Engineering")
	require.NoError(t, err)
	require.Equal(t, "data-engineering", slug)
	mk(slug)

	slug, err = helper.GenerateUniqueSlug(db, courseSlugOpts, "Data Engineering")
	require.NoError(t, err)
	require.Equal(t, "data-engineering-2", slug)
	mk(slug)

	slug, err = helper.GenerateUniqueSlug(db, courseSlugOpts, "data engineering")
	require.NoError(t, err)
	require.Equal(t, "data-engineering-3", slug)
}

func TestGenerateUniqueSlug_SoftDeletedRowsDoNotBlock(t *testing.T) {
	db := openTestDB(t)

	row := coursemodel.CourseModel{
		CourseSlug:    "short-course-intro",
		CourseTitle:   "T",
		CourseSummary: "summary text here",
		CourseLevel:   coursemodel.CourseLevelShort,
	}
	require.NoError(t, db.Create(&row).Error)
	require.NoError(t, db.Delete(&row).Error)

	slug, err := helper.GenerateUniqueSlug(db, courseSlugOpts, "Short Course Intro")
	require.NoError(t, err)
	require.Equal(t, "short-course-intro", slug)
}

func TestGenerateUniqueSlug_EmptyBaseUsesDefault(t *testing.T) {
	db := openTestDB(t)
	slug, err := helper.GenerateUniqueSlug(db, courseSlugOpts, "!!!")
	require.NoError(t, err)
	require.Equal(t, "course", slug)
}
