package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	appmodel "coursedig_backend/internals/features/admissions/applications/model"
	auditservice "coursedig_backend/internals/features/audit/service"
	coursemodel "coursedig_backend/internals/features/courses/model"
	invmodel "coursedig_backend/internals/features/payments/model"
	payservice "coursedig_backend/internals/features/payments/service"
	helper "coursedig_backend/internals/helpers"
	helperAuth "coursedig_backend/internals/helpers/auth"
)

type InvoiceAdminController struct {
	DB      *gorm.DB
	Gateway payservice.SnapGateway
}

// =========================================================
// CREATE FEE INVOICE - POST /api/admin/applications/:id/fee-invoice
// Only accepted applications with a configured course fee get a payment
// link; the gateway call happens before the insert so a gateway failure
// writes nothing.
// =========================================================
func (h *InvoiceAdminController) CreateFeeInvoice(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if h.Gateway == nil {
		return helper.JsonError(c, fiber.StatusBadGateway, "Payment gateway is not configured")
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application ID")
	}

	var app appmodel.ApplicationModel
	if err := h.DB.First(&app, "application_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Application not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load application")
	}
	if app.ApplicationStatus != appmodel.ApplicationStatusAccepted {
		return helper.JsonError(c, fiber.StatusBadRequest, "Only accepted applications can be invoiced")
	}

	var fee coursemodel.CourseFeeModel
	if err := h.DB.First(&fee, "course_fee_course_id = ?", app.ApplicationCourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "No fee is configured for this course")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course fee")
	}

	var pending int64
	if err := h.DB.Model(&invmodel.ApplicationInvoiceModel{}).
		Where("invoice_application_id = ? AND invoice_status = ?", app.ApplicationID, invmodel.InvoiceStatusPending).
		Count(&pending).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check existing invoices")
	}
	if pending > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "A pending invoice already exists for this application")
	}

	amount := fee.CourseFeeRegistrationCents
	if amount <= 0 {
		amount = fee.CourseFeeTuitionCents
	}
	orderID := fmt.Sprintf("%s-%d", app.ApplicationRef, time.Now().Unix())
	payerName := strings.TrimSpace(app.ApplicationFirstName + " " + app.ApplicationLastName)

	link, err := h.Gateway.CreatePaymentLink(orderID, amount, payerName, app.ApplicationEmail)
	if err != nil {
		log.Printf("[PAYMENTS] payment link failed for %s: %v", app.ApplicationRef, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Payment provider is unavailable, please retry")
	}

	inv := invmodel.ApplicationInvoiceModel{
		InvoiceApplicationID: app.ApplicationID,
		InvoiceOrderID:       orderID,
		InvoiceAmountCents:   amount,
		InvoiceCurrency:      fee.CourseFeeCurrency,
		InvoiceSnapToken:     link.Token,
		InvoiceRedirectURL:   link.RedirectURL,
	}
	targetID := app.ApplicationID
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		return auditservice.Record(tx, auditservice.Entry{
			Action:    "APPLICATION_FEE_INVOICE",
			ActorID:   actorID,
			TargetID:  &targetID,
			After:     map[string]interface{}{"order_id": orderID, "amount_cents": amount, "currency": fee.CourseFeeCurrency},
			Meta:      map[string]interface{}{"application_ref": app.ApplicationRef},
			IP:        c.IP(),
			UserAgent: c.Get("User-Agent"),
		})
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to record invoice")
	}

	return helper.JsonCreated(c, "Invoice created", inv)
}

// =========================================================
// LIST - GET /api/admin/applications/:id/invoices
// =========================================================
func (h *InvoiceAdminController) ListForApplication(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application ID")
	}

	var rows []invmodel.ApplicationInvoiceModel
	if err := h.DB.Where("invoice_application_id = ?", id).
		Order("invoice_created_at DESC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list invoices")
	}
	return helper.JsonOK(c, "OK", fiber.Map{"invoices": rows})
}
