package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseFeeModel holds at most one fee row per course; the unique index on
// course id is what makes the upsert safe.
type CourseFeeModel struct {
	CourseFeeID       uuid.UUID `json:"course_fee_id" gorm:"column:course_fee_id;type:uuid;primaryKey"`
	CourseFeeCourseID uuid.UUID `json:"course_fee_course_id" gorm:"column:course_fee_course_id;type:uuid;not null;uniqueIndex:uq_course_fees_course"`

	CourseFeeCurrency          string `json:"course_fee_currency" gorm:"column:course_fee_currency;type:varchar(3);not null;default:'IDR'"`
	CourseFeeTuitionCents      int64  `json:"course_fee_tuition_cents" gorm:"column:course_fee_tuition_cents;not null"`
	CourseFeeRegistrationCents int64  `json:"course_fee_registration_cents" gorm:"column:course_fee_registration_cents;not null;default:0"`

	CourseFeeCreatedAt time.Time `json:"course_fee_created_at" gorm:"column:course_fee_created_at;not null;autoCreateTime"`
	CourseFeeUpdatedAt time.Time `json:"course_fee_updated_at" gorm:"column:course_fee_updated_at;not null;autoUpdateTime"`
}

func (CourseFeeModel) TableName() string { return "course_fees" }

func (m *CourseFeeModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseFeeID == uuid.Nil {
		m.CourseFeeID = uuid.New()
	}
	return nil
}
