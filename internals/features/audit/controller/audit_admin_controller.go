package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "coursedig_backend/internals/features/audit/dto"
	model "coursedig_backend/internals/features/audit/model"
	usermodel "coursedig_backend/internals/features/users/auth/model"
	helper "coursedig_backend/internals/helpers"
)

// AuditAdminController is read-only; the event log has no write API beyond
// the recorder and no update/delete path at all.
type AuditAdminController struct {
	DB *gorm.DB
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// =========================================================
// LIST - GET /api/admin/audit-events?q=&action=&limit=
//
// q= is a substring filter across actor email, action, target id, and the
// serialized before/after/meta blobs. Most-recent-N ordering.
// =========================================================
func (h *AuditAdminController) List(c *fiber.Ctx) error {
	limit := defaultAuditLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	q := h.DB.Model(&model.AuditEventModel{})
	if action := strings.TrimSpace(c.Query("action")); action != "" {
		q = q.Where("audit_event_action = ?", action)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			`lower(audit_event_action) LIKE ?
			 OR lower(CAST(audit_event_target_id AS TEXT)) LIKE ?
			 OR lower(CAST(audit_event_before AS TEXT)) LIKE ?
			 OR lower(CAST(audit_event_after AS TEXT)) LIKE ?
			 OR lower(CAST(audit_event_meta AS TEXT)) LIKE ?
			 OR audit_event_actor_id IN (SELECT id FROM users WHERE lower(email) LIKE ?)`,
			like, like, like, like, like, like)
	}

	var rows []model.AuditEventModel
	if err := q.Order("audit_event_created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list audit events")
	}

	// Resolve actor emails in one query rather than per row.
	actorIDs := make([]uuid.UUID, 0, len(rows))
	seen := map[uuid.UUID]bool{}
	for i := range rows {
		if !seen[rows[i].AuditEventActorID] {
			seen[rows[i].AuditEventActorID] = true
			actorIDs = append(actorIDs, rows[i].AuditEventActorID)
		}
	}
	emailByID := map[uuid.UUID]string{}
	if len(actorIDs) > 0 {
		var actors []usermodel.UserModel
		if err := h.DB.Select("id", "email").Where("id IN ?", actorIDs).Find(&actors).Error; err == nil {
			for i := range actors {
				emailByID[actors[i].ID] = actors[i].Email
			}
		}
	}

	out := make([]dto.AuditEventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToAuditEventResponse(&rows[i], emailByID[rows[i].AuditEventActorID]))
	}
	return helper.JsonOK(c, "OK", fiber.Map{"audit_events": out})
}
