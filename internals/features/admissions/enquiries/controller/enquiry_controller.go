package controller

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"coursedig_backend/internals/configs"
	counters "coursedig_backend/internals/features/admissions/counters/service"
	dto "coursedig_backend/internals/features/admissions/enquiries/dto"
	model "coursedig_backend/internals/features/admissions/enquiries/model"
	helper "coursedig_backend/internals/helpers"
	"coursedig_backend/internals/helpers/mailer"
	"coursedig_backend/internals/helpers/turnstile"
)

type EnquiryController struct {
	DB     *gorm.DB
	Mailer mailer.Mailer
}

var validate = validator.New()

// =========================================================
// CREATE - POST /api/enquiries (public, anti-bot gated)
//
// Ordering is load-bearing: validate before touching storage; the counter
// increment and the enquiry insert share one transaction so allocator or
// insert failure leaves nothing behind; emails fire only after commit and
// never fail the submission.
// =========================================================
func (h *EnquiryController) Create(c *fiber.Ctx) error {
	var req dto.EnquiryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if ok, codes := turnstile.Verify(c.UserContext(), req.TurnstileToken, c.IP()); !ok {
		log.Printf("[ENQUIRY] turnstile rejected: %v", codes)
		return helper.JsonError(c, fiber.StatusBadRequest, "Anti-bot verification failed, please retry")
	}

	now := time.Now()
	enquiry := model.EnquiryModel{
		EnquiryFullName: req.FullName,
		EnquiryEmail:    req.Email,
		EnquiryPhone:    req.Phone,
		EnquiryMessage:  req.Message,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := counters.NextEnquirySeq(tx, counters.EnquiryScope(now))
		if err != nil {
			return err
		}
		enquiry.EnquiryRef = counters.FormatEnquiryRef(now, seq)
		return tx.Create(&enquiry).Error
	})
	if err != nil {
		log.Printf("[ENQUIRY] create failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not record your enquiry, please try again")
	}

	h.notify(&enquiry)

	return helper.JsonCreated(c, "Enquiry received", fiber.Map{
		"enquiry_ref": enquiry.EnquiryRef,
	})
}

func (h *EnquiryController) notify(e *model.EnquiryModel) {
	mailer.SendAsync(h.Mailer, mailer.Message{
		To:      e.EnquiryEmail,
		Subject: fmt.Sprintf("We received your enquiry (%s)", e.EnquiryRef),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Thanks for getting in touch. Your reference is <strong>%s</strong>; we aim to respond within two working days.</p>`,
			e.EnquiryFullName, e.EnquiryRef),
		Text: fmt.Sprintf("Thanks for getting in touch. Your reference is %s.", e.EnquiryRef),
	})

	if configs.AdminNotifyTo != "" {
		mailer.SendAsync(h.Mailer, mailer.Message{
			To:      configs.AdminNotifyTo,
			Subject: fmt.Sprintf("New enquiry %s from %s", e.EnquiryRef, e.EnquiryFullName),
			HTML:    fmt.Sprintf(`<p>New enquiry <strong>%s</strong> from %s (%s).</p>`, e.EnquiryRef, e.EnquiryFullName, e.EnquiryEmail),
			Text:    fmt.Sprintf("New enquiry %s from %s (%s).", e.EnquiryRef, e.EnquiryFullName, e.EnquiryEmail),
		})
	}
}
