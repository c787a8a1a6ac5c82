package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "coursedig_backend/internals/features/admissions/applications/dto"
	model "coursedig_backend/internals/features/admissions/applications/model"
	auditservice "coursedig_backend/internals/features/audit/service"
	helper "coursedig_backend/internals/helpers"
	helperAuth "coursedig_backend/internals/helpers/auth"
)

type ApplicationAdminController struct {
	DB *gorm.DB
}

// =========================================================
// LIST - GET /api/admin/applications
// =========================================================
func (h *ApplicationAdminController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.ApplicationModel{})
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("application_status = ?", status)
	}
	if courseID := strings.TrimSpace(c.Query("course_id")); courseID != "" {
		q = q.Where("application_course_id = ?", courseID)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(application_first_name) LIKE ? OR lower(application_last_name) LIKE ? OR lower(application_email) LIKE ? OR lower(application_ref) LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count applications")
	}

	var rows []model.ApplicationModel
	if err := q.Preload("Attachments").
		Order("application_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list applications")
	}

	out := make([]dto.ApplicationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToApplicationResponse(&rows[i]))
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"applications": out,
		"pagination":   helper.BuildPagination(total, paging.Page, paging.PerPage),
	})
}

// =========================================================
// DETAIL - GET /api/admin/applications/:id
// =========================================================
func (h *ApplicationAdminController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application ID")
	}

	var row model.ApplicationModel
	if err := h.DB.Preload("Attachments").First(&row, "application_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Application not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load application")
	}
	return helper.JsonOK(c, "OK", dto.ToApplicationResponse(&row))
}

// =========================================================
// STATUS - PATCH /api/admin/applications/:id/status
// submitted → under_review → accepted | rejected; each move is recorded with
// the change in one transaction.
// =========================================================
func (h *ApplicationAdminController) UpdateStatus(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application ID")
	}

	var req dto.ApplicationStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var row model.ApplicationModel
	if err := h.DB.First(&row, "application_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Application not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load application")
	}

	if row.ApplicationStatus == req.Status {
		return helper.JsonOK(c, "Application already has this status", fiber.Map{"already_applied": true})
	}
	if !model.ValidApplicationTransition(row.ApplicationStatus, req.Status) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid status transition "+row.ApplicationStatus+" → "+req.Status)
	}

	oldStatus := row.ApplicationStatus
	targetID := row.ApplicationID
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ApplicationModel{}).Where("application_id = ?", row.ApplicationID).
			Update("application_status", req.Status).Error; err != nil {
			return err
		}
		return auditservice.Record(tx, auditservice.Entry{
			Action:    "APPLICATION_STATUS_CHANGE",
			ActorID:   actorID,
			TargetID:  &targetID,
			Before:    map[string]interface{}{"status": oldStatus},
			After:     map[string]interface{}{"status": req.Status},
			Meta:      map[string]interface{}{"application_ref": row.ApplicationRef},
			IP:        c.IP(),
			UserAgent: c.Get("User-Agent"),
		})
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update status")
	}

	row.ApplicationStatus = req.Status
	return helper.JsonOK(c, "Status updated", dto.ToApplicationResponse(&row))
}
