package controller

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"coursedig_backend/internals/configs"
	model "coursedig_backend/internals/features/newsletter/model"
	helper "coursedig_backend/internals/helpers"
	"coursedig_backend/internals/helpers/mailer"
	"coursedig_backend/internals/helpers/turnstile"
)

type NewsletterController struct {
	DB     *gorm.DB
	Mailer mailer.Mailer
}

var validate = validator.New()

type subscribeRequest struct {
	Email          string `json:"email" validate:"required,email"`
	TurnstileToken string `json:"turnstile_token"`
}

type unsubscribeRequest struct {
	Token string `json:"token" validate:"required"`
}

func newSubscriberToken() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		log.Printf("[NEWSLETTER] token generation fallback: %v", err)
		return hex.EncodeToString([]byte(time.Now().String()))[:48]
	}
	return hex.EncodeToString(buf)
}

// =========================================================
// SUBSCRIBE - POST /api/newsletter/subscribe (public, anti-bot gated)
// Double opt-in: the row starts pending and only the emailed token can
// activate it. Re-subscribing after unsubscription reuses the row with a
// fresh token.
// =========================================================
func (h *NewsletterController) Subscribe(c *fiber.Ctx) error {
	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if ok, codes := turnstile.Verify(c.UserContext(), req.TurnstileToken, c.IP()); !ok {
		log.Printf("[NEWSLETTER] turnstile rejected: %v", codes)
		return helper.JsonError(c, fiber.StatusBadRequest, "Anti-bot verification failed, please retry")
	}

	var sub model.SubscriberModel
	err := h.DB.First(&sub, "subscriber_email = ?", req.Email).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = model.SubscriberModel{
			SubscriberEmail: req.Email,
			SubscriberToken: newSubscriberToken(),
		}
		if err := h.DB.Create(&sub).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.JsonError(c, fiber.StatusConflict, "This email is already subscribed")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to subscribe")
		}
	case err != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to subscribe")
	default:
		if sub.SubscriberStatus == model.SubscriberStatusActive {
			return helper.JsonError(c, fiber.StatusConflict, "This email is already subscribed")
		}
		// pending or unsubscribed: reset and re-send the opt-in link
		sub.SubscriberStatus = model.SubscriberStatusPending
		sub.SubscriberToken = newSubscriberToken()
		sub.SubscriberConfirmedAt = nil
		if err := h.DB.Model(&model.SubscriberModel{}).
			Where("subscriber_id = ?", sub.SubscriberID).
			Updates(map[string]interface{}{
				"subscriber_status":       sub.SubscriberStatus,
				"subscriber_token":        sub.SubscriberToken,
				"subscriber_confirmed_at": nil,
			}).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to subscribe")
		}
	}

	confirmURL := fmt.Sprintf("%s/api/newsletter/confirm?token=%s",
		strings.TrimRight(configs.GetEnv("APP_BASE_URL", "http://localhost:3000"), "/"), sub.SubscriberToken)
	mailer.SendAsync(h.Mailer, mailer.Message{
		To:      sub.SubscriberEmail,
		Subject: "Confirm your newsletter subscription",
		HTML:    fmt.Sprintf(`<p>Please confirm your subscription by opening <a href="%s">this link</a>.</p>`, confirmURL),
		Text:    "Please confirm your subscription: " + confirmURL,
	})

	return helper.JsonOK(c, "Confirmation email sent", nil)
}

// =========================================================
// CONFIRM - GET /api/newsletter/confirm?token=
// =========================================================
func (h *NewsletterController) Confirm(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Token is required")
	}

	var sub model.SubscriberModel
	if err := h.DB.First(&sub, "subscriber_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Unknown or expired token")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to confirm subscription")
	}

	if sub.SubscriberStatus == model.SubscriberStatusActive {
		return helper.JsonOK(c, "Subscription already confirmed", fiber.Map{"already_applied": true})
	}

	now := time.Now()
	if err := h.DB.Model(&model.SubscriberModel{}).
		Where("subscriber_id = ?", sub.SubscriberID).
		Updates(map[string]interface{}{
			"subscriber_status":       model.SubscriberStatusActive,
			"subscriber_confirmed_at": now,
		}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to confirm subscription")
	}

	return helper.JsonOK(c, "Subscription confirmed", nil)
}

// =========================================================
// UNSUBSCRIBE - POST /api/newsletter/unsubscribe
// =========================================================
func (h *NewsletterController) Unsubscribe(c *fiber.Ctx) error {
	var req unsubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var sub model.SubscriberModel
	if err := h.DB.First(&sub, "subscriber_token = ?", strings.TrimSpace(req.Token)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Unknown token")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to unsubscribe")
	}

	if sub.SubscriberStatus == model.SubscriberStatusUnsubscribed {
		return helper.JsonOK(c, "Already unsubscribed", fiber.Map{"already_applied": true})
	}

	if err := h.DB.Model(&model.SubscriberModel{}).
		Where("subscriber_id = ?", sub.SubscriberID).
		Update("subscriber_status", model.SubscriberStatusUnsubscribed).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to unsubscribe")
	}

	return helper.JsonOK(c, "Unsubscribed", nil)
}
