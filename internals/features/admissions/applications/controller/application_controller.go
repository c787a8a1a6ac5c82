package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"coursedig_backend/internals/configs"
	dto "coursedig_backend/internals/features/admissions/applications/dto"
	model "coursedig_backend/internals/features/admissions/applications/model"
	counters "coursedig_backend/internals/features/admissions/counters/service"
	coursemodel "coursedig_backend/internals/features/courses/model"
	helper "coursedig_backend/internals/helpers"
	helperAuth "coursedig_backend/internals/helpers/auth"
	"coursedig_backend/internals/helpers/mailer"
)

type ApplicationController struct {
	DB     *gorm.DB
	Mailer mailer.Mailer
}

var validate = validator.New()

// =========================================================
// CREATE - POST /api/u/applications (authenticated)
//
// Counter allocation, application insert, and attachment inserts share one
// transaction: any failure reverts the sequence increment and leaves no
// partial rows. Emails fire only after commit and never affect the result.
// =========================================================
func (h *ApplicationController) Create(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.ApplicationCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	dob, err := req.ParseDateOfBirth()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := req.ValidateAttachments(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course ID")
	}
	var course coursemodel.CourseModel
	if err := h.DB.First(&course, "course_id = ? AND course_is_published = ?", courseID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}

	now := time.Now()
	app := model.ApplicationModel{
		ApplicationUserID:      userID,
		ApplicationCourseID:    course.CourseID,
		ApplicationFirstName:   req.FirstName,
		ApplicationLastName:    req.LastName,
		ApplicationDateOfBirth: dob,
		ApplicationEmail:       req.Email,
		ApplicationPhone:       req.Phone,
		ApplicationStatement:   req.Statement,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		scope := counters.ApplicationScope(now, model.ApplicationTypeStandard)
		seq, err := counters.NextApplicationSeq(tx, scope)
		if err != nil {
			return err
		}
		app.ApplicationRef = counters.FormatApplicationRef(req.LastName, dob.Year(), now, seq)

		if err := tx.Create(&app).Error; err != nil {
			return err
		}
		for _, a := range req.Attachments {
			row := model.ApplicationAttachmentModel{
				AttachmentApplicationID: app.ApplicationID,
				AttachmentFileName:      strings.TrimSpace(a.FileName),
				AttachmentMimeType:      a.MimeType,
				AttachmentSizeBytes:     a.SizeBytes,
				AttachmentObjectKey:     a.ObjectKey,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			app.Attachments = append(app.Attachments, row)
		}
		return nil
	})
	if err != nil {
		log.Printf("[APPLICATION] create failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not record your application, please try again")
	}

	h.notify(&app, course.CourseTitle)

	return helper.JsonCreated(c, "Application received", fiber.Map{
		"application_ref": app.ApplicationRef,
		"application_id":  app.ApplicationID,
	})
}

// =========================================================
// MINE - GET /api/u/applications (authenticated, own submissions)
// =========================================================
func (h *ApplicationController) Mine(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var rows []model.ApplicationModel
	if err := h.DB.Preload("Attachments").
		Where("application_user_id = ?", userID).
		Order("application_created_at DESC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list applications")
	}

	out := make([]dto.ApplicationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToApplicationResponse(&rows[i]))
	}
	return helper.JsonOK(c, "OK", fiber.Map{"applications": out})
}

func (h *ApplicationController) notify(app *model.ApplicationModel, courseTitle string) {
	mailer.SendAsync(h.Mailer, mailer.Message{
		To:      app.ApplicationEmail,
		Subject: fmt.Sprintf("Application received (%s)", app.ApplicationRef),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Your application for <strong>%s</strong> has been received. Your reference is <strong>%s</strong>.</p>`,
			app.ApplicationFirstName, courseTitle, app.ApplicationRef),
		Text: fmt.Sprintf("Your application for %s has been received. Reference: %s.", courseTitle, app.ApplicationRef),
	})

	if configs.AdminNotifyTo != "" {
		mailer.SendAsync(h.Mailer, mailer.Message{
			To:      configs.AdminNotifyTo,
			Subject: fmt.Sprintf("New application %s", app.ApplicationRef),
			HTML: fmt.Sprintf(`<p>New application <strong>%s</strong> from %s %s for %s.</p>`,
				app.ApplicationRef, app.ApplicationFirstName, app.ApplicationLastName, courseTitle),
			Text: fmt.Sprintf("New application %s from %s %s for %s.",
				app.ApplicationRef, app.ApplicationFirstName, app.ApplicationLastName, courseTitle),
		})
	}
}
