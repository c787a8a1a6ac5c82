package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	model "coursedig_backend/internals/features/audit/model"
)

type AuditEventResponse struct {
	AuditEventID uuid.UUID  `json:"audit_event_id"`
	Action       string     `json:"action"`
	ActorID      uuid.UUID  `json:"actor_id"`
	ActorEmail   string     `json:"actor_email,omitempty"`
	TargetID     *uuid.UUID `json:"target_id,omitempty"`

	Before json.RawMessage `json:"before,omitempty"`
	After  json.RawMessage `json:"after,omitempty"`
	Meta   json.RawMessage `json:"meta,omitempty"`

	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToAuditEventResponse(m *model.AuditEventModel, actorEmail string) AuditEventResponse {
	return AuditEventResponse{
		AuditEventID: m.AuditEventID,
		Action:       m.AuditEventAction,
		ActorID:      m.AuditEventActorID,
		ActorEmail:   actorEmail,
		TargetID:     m.AuditEventTargetID,
		Before:       json.RawMessage(m.AuditEventBefore),
		After:        json.RawMessage(m.AuditEventAfter),
		Meta:         json.RawMessage(m.AuditEventMeta),
		IP:           m.AuditEventIP,
		UserAgent:    m.AuditEventUserAgent,
		CreatedAt:    m.AuditEventCreatedAt,
	}
}
