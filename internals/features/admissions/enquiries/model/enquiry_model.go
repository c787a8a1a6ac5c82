package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnquiryStatusNew       = "new"
	EnquiryStatusResponded = "responded"
	EnquiryStatusClosed    = "closed"
)

// EnquiryModel is one public enquiry submission. The reference is allocated
// once at submission and never changes; status moves only through admin
// actions.
type EnquiryModel struct {
	EnquiryID  uuid.UUID `json:"enquiry_id" gorm:"column:enquiry_id;type:uuid;primaryKey"`
	EnquiryRef string    `json:"enquiry_ref" gorm:"column:enquiry_ref;type:varchar(24);not null;uniqueIndex:uq_enquiries_ref"`

	EnquiryFullName string  `json:"enquiry_full_name" gorm:"column:enquiry_full_name;type:varchar(100);not null"`
	EnquiryEmail    string  `json:"enquiry_email" gorm:"column:enquiry_email;type:varchar(255);not null;index:idx_enquiries_email"`
	EnquiryPhone    *string `json:"enquiry_phone,omitempty" gorm:"column:enquiry_phone;type:varchar(32)"`
	EnquiryMessage  string  `json:"enquiry_message" gorm:"column:enquiry_message;type:text;not null"`

	EnquiryStatus string `json:"enquiry_status" gorm:"column:enquiry_status;type:varchar(16);not null;default:'new';index:idx_enquiries_status"`

	EnquiryCreatedAt time.Time `json:"enquiry_created_at" gorm:"column:enquiry_created_at;not null;autoCreateTime"`
	EnquiryUpdatedAt time.Time `json:"enquiry_updated_at" gorm:"column:enquiry_updated_at;not null;autoUpdateTime"`
}

func (EnquiryModel) TableName() string { return "enquiries" }

func (m *EnquiryModel) BeforeCreate(tx *gorm.DB) error {
	if m.EnquiryID == uuid.Nil {
		m.EnquiryID = uuid.New()
	}
	if m.EnquiryStatus == "" {
		m.EnquiryStatus = EnquiryStatusNew
	}
	return nil
}

// ValidEnquiryTransition whitelists the admin-driven status moves.
func ValidEnquiryTransition(from, to string) bool {
	switch from {
	case EnquiryStatusNew:
		return to == EnquiryStatusResponded || to == EnquiryStatusClosed
	case EnquiryStatusResponded:
		return to == EnquiryStatusClosed
	default:
		return false
	}
}
