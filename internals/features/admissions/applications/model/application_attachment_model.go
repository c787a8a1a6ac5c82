package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationAttachmentModel records attachment metadata only; the bytes live
// in object storage under the object key, uploaded via a presigned PUT.
type ApplicationAttachmentModel struct {
	AttachmentID            uuid.UUID `json:"attachment_id" gorm:"column:attachment_id;type:uuid;primaryKey"`
	AttachmentApplicationID uuid.UUID `json:"attachment_application_id" gorm:"column:attachment_application_id;type:uuid;not null;index:idx_attachments_application"`

	AttachmentFileName  string `json:"attachment_file_name" gorm:"column:attachment_file_name;type:varchar(255);not null"`
	AttachmentMimeType  string `json:"attachment_mime_type" gorm:"column:attachment_mime_type;type:varchar(100);not null"`
	AttachmentSizeBytes int64  `json:"attachment_size_bytes" gorm:"column:attachment_size_bytes;not null"`
	AttachmentObjectKey string `json:"attachment_object_key" gorm:"column:attachment_object_key;type:varchar(512);not null"`

	AttachmentCreatedAt time.Time `json:"attachment_created_at" gorm:"column:attachment_created_at;not null;autoCreateTime"`
}

func (ApplicationAttachmentModel) TableName() string { return "application_attachments" }

func (m *ApplicationAttachmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttachmentID == uuid.Nil {
		m.AttachmentID = uuid.New()
	}
	return nil
}
