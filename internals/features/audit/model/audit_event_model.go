package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEventModel is append-only: no update or delete path exists anywhere in
// the codebase. Each row records who did what to whom, with opaque
// before/after snapshots.
type AuditEventModel struct {
	AuditEventID uuid.UUID `json:"audit_event_id" gorm:"column:audit_event_id;type:uuid;primaryKey"`

	AuditEventAction  string     `json:"audit_event_action" gorm:"column:audit_event_action;type:varchar(64);not null;index:idx_audit_events_action"`
	AuditEventActorID uuid.UUID  `json:"audit_event_actor_id" gorm:"column:audit_event_actor_id;type:uuid;not null;index:idx_audit_events_actor"`
	AuditEventTargetID *uuid.UUID `json:"audit_event_target_id,omitempty" gorm:"column:audit_event_target_id;type:uuid;index:idx_audit_events_target"`

	AuditEventBefore datatypes.JSON `json:"audit_event_before,omitempty" gorm:"column:audit_event_before"`
	AuditEventAfter  datatypes.JSON `json:"audit_event_after,omitempty" gorm:"column:audit_event_after"`
	AuditEventMeta   datatypes.JSON `json:"audit_event_meta,omitempty" gorm:"column:audit_event_meta"`

	AuditEventIP        string `json:"audit_event_ip" gorm:"column:audit_event_ip;type:varchar(64)"`
	AuditEventUserAgent string `json:"audit_event_user_agent" gorm:"column:audit_event_user_agent;type:varchar(512)"`

	AuditEventCreatedAt time.Time `json:"audit_event_created_at" gorm:"column:audit_event_created_at;not null;autoCreateTime;index:idx_audit_events_created"`
}

func (AuditEventModel) TableName() string { return "audit_events" }

func (m *AuditEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.AuditEventID == uuid.Nil {
		m.AuditEventID = uuid.New()
	}
	return nil
}
