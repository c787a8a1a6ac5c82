package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "coursedig_backend/internals/features/admissions/enquiries/dto"
	model "coursedig_backend/internals/features/admissions/enquiries/model"
	auditservice "coursedig_backend/internals/features/audit/service"
	helper "coursedig_backend/internals/helpers"
	helperAuth "coursedig_backend/internals/helpers/auth"
)

type EnquiryAdminController struct {
	DB *gorm.DB
}

// =========================================================
// LIST - GET /api/admin/enquiries
// =========================================================
func (h *EnquiryAdminController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.EnquiryModel{})
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("enquiry_status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(enquiry_full_name) LIKE ? OR lower(enquiry_email) LIKE ? OR lower(enquiry_ref) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count enquiries")
	}

	var rows []model.EnquiryModel
	if err := q.Order("enquiry_created_at DESC").Offset(paging.Offset).Limit(paging.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list enquiries")
	}

	out := make([]dto.EnquiryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToEnquiryResponse(&rows[i]))
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"enquiries":  out,
		"pagination": helper.BuildPagination(total, paging.Page, paging.PerPage),
	})
}

// =========================================================
// DETAIL - GET /api/admin/enquiries/:id
// =========================================================
func (h *EnquiryAdminController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid enquiry ID")
	}

	var row model.EnquiryModel
	if err := h.DB.First(&row, "enquiry_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Enquiry not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load enquiry")
	}
	return helper.JsonOK(c, "OK", dto.ToEnquiryResponse(&row))
}

// =========================================================
// STATUS - PATCH /api/admin/enquiries/:id/status
// Status moves are admin-driven only, and recorded with the change in one
// transaction.
// =========================================================
func (h *EnquiryAdminController) UpdateStatus(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid enquiry ID")
	}

	var req dto.EnquiryStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var row model.EnquiryModel
	if err := h.DB.First(&row, "enquiry_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Enquiry not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load enquiry")
	}

	if row.EnquiryStatus == req.Status {
		return helper.JsonOK(c, "Enquiry already has this status", fiber.Map{"already_applied": true})
	}
	if !model.ValidEnquiryTransition(row.EnquiryStatus, req.Status) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid status transition "+row.EnquiryStatus+" → "+req.Status)
	}

	oldStatus := row.EnquiryStatus
	targetID := row.EnquiryID
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.EnquiryModel{}).Where("enquiry_id = ?", row.EnquiryID).
			Update("enquiry_status", req.Status).Error; err != nil {
			return err
		}
		return auditservice.Record(tx, auditservice.Entry{
			Action:    "ENQUIRY_STATUS_CHANGE",
			ActorID:   actorID,
			TargetID:  &targetID,
			Before:    map[string]interface{}{"status": oldStatus},
			After:     map[string]interface{}{"status": req.Status},
			Meta:      map[string]interface{}{"enquiry_ref": row.EnquiryRef},
			IP:        c.IP(),
			UserAgent: c.Get("User-Agent"),
		})
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update status")
	}

	row.EnquiryStatus = req.Status
	return helper.JsonOK(c, "Status updated", dto.ToEnquiryResponse(&row))
}
