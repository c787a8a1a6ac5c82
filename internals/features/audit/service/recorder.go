package service

import (
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "coursedig_backend/internals/features/audit/model"
)

// Entry is one sensitive state change to record. Before/After/Meta are
// serialized as-is; nil maps produce no snapshot.
type Entry struct {
	Action    string
	ActorID   uuid.UUID
	TargetID  *uuid.UUID
	Before    map[string]interface{}
	After     map[string]interface{}
	Meta      map[string]interface{}
	IP        string
	UserAgent string
}

// Record appends one immutable audit row using the given handle. Callers that
// need the mutation and the audit row to commit together pass their open
// transaction; best-effort callers pass the plain DB and log the error.
func Record(db *gorm.DB, e Entry) error {
	row := model.AuditEventModel{
		AuditEventAction:    e.Action,
		AuditEventActorID:   e.ActorID,
		AuditEventTargetID:  e.TargetID,
		AuditEventIP:        e.IP,
		AuditEventUserAgent: e.UserAgent,
	}

	var err error
	if row.AuditEventBefore, err = marshalSnapshot(e.Before); err != nil {
		return err
	}
	if row.AuditEventAfter, err = marshalSnapshot(e.After); err != nil {
		return err
	}
	if row.AuditEventMeta, err = marshalSnapshot(e.Meta); err != nil {
		return err
	}

	return db.Create(&row).Error
}

func marshalSnapshot(m map[string]interface{}) (datatypes.JSON, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := sonic.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
