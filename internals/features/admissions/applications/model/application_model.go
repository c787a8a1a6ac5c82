package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApplicationStatusSubmitted   = "submitted"
	ApplicationStatusUnderReview = "under_review"
	ApplicationStatusAccepted    = "accepted"
	ApplicationStatusRejected    = "rejected"
)

const ApplicationTypeStandard = "STANDARD"

// ApplicationModel is one course application. The reference is allocated at
// submission inside the same transaction as the insert; attachments live in
// their own table and share that transaction.
type ApplicationModel struct {
	ApplicationID  uuid.UUID `json:"application_id" gorm:"column:application_id;type:uuid;primaryKey"`
	ApplicationRef string    `json:"application_ref" gorm:"column:application_ref;type:varchar(64);not null;uniqueIndex:uq_applications_ref"`

	ApplicationUserID   uuid.UUID `json:"application_user_id" gorm:"column:application_user_id;type:uuid;not null;index:idx_applications_user"`
	ApplicationCourseID uuid.UUID `json:"application_course_id" gorm:"column:application_course_id;type:uuid;not null;index:idx_applications_course"`

	ApplicationFirstName   string    `json:"application_first_name" gorm:"column:application_first_name;type:varchar(80);not null"`
	ApplicationLastName    string    `json:"application_last_name" gorm:"column:application_last_name;type:varchar(80);not null"`
	ApplicationDateOfBirth time.Time `json:"application_date_of_birth" gorm:"column:application_date_of_birth;not null"`
	ApplicationEmail       string    `json:"application_email" gorm:"column:application_email;type:varchar(255);not null"`
	ApplicationPhone       *string   `json:"application_phone,omitempty" gorm:"column:application_phone;type:varchar(32)"`
	ApplicationStatement   string    `json:"application_statement" gorm:"column:application_statement;type:text;not null"`

	ApplicationStatus string `json:"application_status" gorm:"column:application_status;type:varchar(16);not null;default:'submitted';index:idx_applications_status"`

	ApplicationCreatedAt time.Time `json:"application_created_at" gorm:"column:application_created_at;not null;autoCreateTime"`
	ApplicationUpdatedAt time.Time `json:"application_updated_at" gorm:"column:application_updated_at;not null;autoUpdateTime"`

	Attachments []ApplicationAttachmentModel `json:"attachments,omitempty" gorm:"foreignKey:AttachmentApplicationID;references:ApplicationID"`
}

func (ApplicationModel) TableName() string { return "applications" }

func (m *ApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ApplicationID == uuid.Nil {
		m.ApplicationID = uuid.New()
	}
	if m.ApplicationStatus == "" {
		m.ApplicationStatus = ApplicationStatusSubmitted
	}
	return nil
}

// ValidApplicationTransition whitelists the review pipeline moves.
func ValidApplicationTransition(from, to string) bool {
	switch from {
	case ApplicationStatusSubmitted:
		return to == ApplicationStatusUnderReview
	case ApplicationStatusUnderReview:
		return to == ApplicationStatusAccepted || to == ApplicationStatusRejected
	default:
		return false
	}
}
