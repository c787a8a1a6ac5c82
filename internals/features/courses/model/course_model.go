package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CourseLevelFoundation = "foundation"
	CourseLevelDiploma    = "diploma"
	CourseLevelDegree     = "degree"
	CourseLevelShort      = "short_course"
)

// CourseModel is one catalog entry. Slug is the public identifier; featured
// rank orders the home page carousel (nil = not featured).
type CourseModel struct {
	CourseID   uuid.UUID `json:"course_id" gorm:"column:course_id;type:uuid;primaryKey"`
	CourseSlug string    `json:"course_slug" gorm:"column:course_slug;type:varchar(120);not null;uniqueIndex:uq_courses_slug"`

	CourseTitle       string  `json:"course_title" gorm:"column:course_title;type:varchar(150);not null"`
	CourseSummary     string  `json:"course_summary" gorm:"column:course_summary;type:varchar(300);not null"`
	CourseDescription string  `json:"course_description" gorm:"column:course_description;type:text"`
	CourseLevel       string  `json:"course_level" gorm:"column:course_level;type:varchar(20);not null;index:idx_courses_level"`
	CourseDurationWeeks int   `json:"course_duration_weeks" gorm:"column:course_duration_weeks;not null;default:0"`
	CourseCoverURL    *string `json:"course_cover_url,omitempty" gorm:"column:course_cover_url;type:text"`

	CourseIsPublished  bool `json:"course_is_published" gorm:"column:course_is_published;not null;default:false;index:idx_courses_published"`
	CourseFeaturedRank *int `json:"course_featured_rank,omitempty" gorm:"column:course_featured_rank;index:idx_courses_featured_rank"`

	CourseCreatedAt time.Time      `json:"course_created_at" gorm:"column:course_created_at;not null;autoCreateTime"`
	CourseUpdatedAt time.Time      `json:"course_updated_at" gorm:"column:course_updated_at;not null;autoUpdateTime"`
	CourseDeletedAt gorm.DeletedAt `json:"-" gorm:"column:course_deleted_at;index"`
}

func (CourseModel) TableName() string { return "courses" }

func (m *CourseModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseID == uuid.Nil {
		m.CourseID = uuid.New()
	}
	return nil
}

func ValidCourseLevel(level string) bool {
	switch level {
	case CourseLevelFoundation, CourseLevelDiploma, CourseLevelDegree, CourseLevelShort:
		return true
	}
	return false
}
