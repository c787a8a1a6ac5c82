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

	dto "coursedig_backend/internals/features/courses/dto"
	model "coursedig_backend/internals/features/courses/model"
	gate "coursedig_backend/internals/features/users/admin/service"
	usermodel "coursedig_backend/internals/features/users/auth/model"
	helper "coursedig_backend/internals/helpers"
	helperAuth "coursedig_backend/internals/helpers/auth"
	helperOSS "coursedig_backend/internals/helpers/oss"
)

type CourseAdminController struct {
	DB  *gorm.DB
	OSS *helperOSS.OSSService
}

var courseSlugOpts = helper.SlugOptions{
	Table:            "courses",
	SlugColumn:       "course_slug",
	SoftDeleteColumn: "course_deleted_at",
	MaxLen:           120,
	DefaultBase:      "course",
}

func (h *CourseAdminController) loadActor(c *fiber.Ctx) (*usermodel.UserModel, error) {
	actorID, err := helperAuth.GetUserID(c)
	if err != nil {
		return nil, err
	}
	var actor usermodel.UserModel
	if err := h.DB.First(&actor, "id = ?", actorID).Error; err != nil {
		return nil, err
	}
	return &actor, nil
}

// =========================================================
// LIST - GET /api/admin/courses (drafts included)
// =========================================================
func (h *CourseAdminController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.CourseModel{})
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(course_title) LIKE ? OR lower(course_slug) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count courses")
	}

	var rows []model.CourseModel
	if err := q.Order("course_created_at DESC").Offset(paging.Offset).Limit(paging.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list courses")
	}

	out := make([]dto.CourseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToCourseResponse(&rows[i], nil))
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"courses":    out,
		"pagination": helper.BuildPagination(total, paging.Page, paging.PerPage),
	})
}

// =========================================================
// CREATE - POST /api/admin/courses
// =========================================================
func (h *CourseAdminController) Create(c *fiber.Ctx) error {
	var req dto.CourseCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	base := req.Slug
	if base == "" {
		base = req.Title
	}
	slug, err := helper.GenerateUniqueSlug(h.DB, courseSlugOpts, base)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
	}

	row := model.CourseModel{
		CourseSlug:          slug,
		CourseTitle:         req.Title,
		CourseSummary:       req.Summary,
		CourseDescription:   req.Description,
		CourseLevel:         req.Level,
		CourseDurationWeeks: req.DurationWeeks,
	}
	if req.IsPublished != nil {
		row.CourseIsPublished = *req.IsPublished
	}

	if err := h.DB.Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "A course with this slug already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create course")
	}
	return helper.JsonCreated(c, "Course created", dto.ToCourseResponse(&row, nil))
}

// =========================================================
// UPDATE - PATCH /api/admin/courses/:id
// =========================================================
func (h *CourseAdminController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course ID")
	}

	var req dto.CourseUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var row model.CourseModel
	if err := h.DB.First(&row, "course_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["course_title"] = strings.TrimSpace(*req.Title)
	}
	if req.Summary != nil {
		updates["course_summary"] = strings.TrimSpace(*req.Summary)
	}
	if req.Description != nil {
		updates["course_description"] = strings.TrimSpace(*req.Description)
	}
	if req.Level != nil {
		updates["course_level"] = *req.Level
	}
	if req.DurationWeeks != nil {
		updates["course_duration_weeks"] = *req.DurationWeeks
	}
	if req.IsPublished != nil {
		updates["course_is_published"] = *req.IsPublished
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Nothing to update", dto.ToCourseResponse(&row, nil))
	}

	if err := h.DB.Model(&row).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update course")
	}
	if err := h.DB.First(&row, "course_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload course")
	}
	return helper.JsonOK(c, "Course updated", dto.ToCourseResponse(&row, nil))
}

// =========================================================
// DELETE - DELETE /api/admin/courses/:id (soft delete)
// =========================================================
func (h *CourseAdminController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course ID")
	}

	res := h.DB.Delete(&model.CourseModel{}, "course_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete course")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
	}
	return helper.JsonOK(c, "Course deleted", nil)
}

// =========================================================
// COVER - PUT /api/admin/courses/:id/cover (multipart "cover")
// The image is re-encoded to WebP server-side before upload; the old cover
// object is removed best-effort after the new URL is saved.
// =========================================================
func (h *CourseAdminController) UploadCover(c *fiber.Ctx) error {
	if h.OSS == nil {
		return helper.JsonError(c, fiber.StatusBadGateway, "File storage is not configured")
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course ID")
	}

	var row model.CourseModel
	if err := h.DB.First(&row, "course_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}

	fh, err := c.FormFile("cover")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "A cover image file is required")
	}

	webpBytes, err := helper.ConvertImageToWebP(fh)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	key := fmt.Sprintf("courses/%s/cover-%d.webp", row.CourseID, time.Now().Unix())
	url, err := h.OSS.UploadBytes(key, "image/webp", webpBytes)
	if err != nil {
		log.Printf("[COURSES] cover upload failed: %v", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Could not store the cover image, please retry")
	}

	oldURL := row.CourseCoverURL
	if err := h.DB.Model(&row).Update("course_cover_url", url).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save cover URL")
	}

	if oldURL != nil {
		if oldKey, ok := strings.CutPrefix(*oldURL, h.OSS.PublicBase+"/"); ok {
			if derr := h.OSS.DeleteObject(oldKey); derr != nil {
				log.Printf("[COURSES] old cover cleanup failed: %v", derr)
			}
		}
	}

	row.CourseCoverURL = &url
	return helper.JsonOK(c, "Cover updated", dto.ToCourseResponse(&row, nil))
}

// =========================================================
// FEE - PUT /api/admin/courses/:id/fee
// Upsert keyed by course id: exactly one fee row per course, updated in
// place on repeat calls.
// =========================================================
func (h *CourseAdminController) UpsertFee(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course ID")
	}

	var req dto.CourseFeeUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var course model.CourseModel
	if err := h.DB.First(&course, "course_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	var fee model.CourseFeeModel
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&fee, "course_fee_course_id = ?", course.CourseID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			fee = model.CourseFeeModel{
				CourseFeeCourseID:          course.CourseID,
				CourseFeeCurrency:          currency,
				CourseFeeTuitionCents:      req.TuitionCents,
				CourseFeeRegistrationCents: req.RegistrationCents,
			}
			return tx.Create(&fee).Error
		case err != nil:
			return err
		default:
			fee.CourseFeeCurrency = currency
			fee.CourseFeeTuitionCents = req.TuitionCents
			fee.CourseFeeRegistrationCents = req.RegistrationCents
			return tx.Save(&fee).Error
		}
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "A fee for this course already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save fee")
	}

	return helper.JsonOK(c, "Fee saved", dto.ToCourseResponse(&course, &fee))
}

// =========================================================
// FEATURED RANKS - PATCH /api/admin/home/featured
// Goes through the elevated-action gate; audit is best-effort for this
// content-ranking action.
// =========================================================
func (h *CourseAdminController) UpdateFeaturedRanks(c *fiber.Ctx) error {
	actor, err := h.loadActor(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.FeaturedRanksUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	gateReq := gate.GateRequest{
		Kind:           gate.ActionFeaturedRank,
		Actor:          actor,
		Justification:  req.Justification,
		SecondPassword: req.SecondPassword,
	}
	if gerr := gate.Authorize(gateReq); gerr != nil {
		return helper.JsonErrorWithCode(c, gerr.Status, gerr.Code, gerr.Message)
	}

	ids := make([]uuid.UUID, 0, len(req.Ranks))
	rankByID := make(map[uuid.UUID]*int, len(req.Ranks))
	for _, e := range req.Ranks {
		cid, err := uuid.Parse(e.CourseID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course ID in ranks")
		}
		ids = append(ids, cid)
		rankByID[cid] = e.Rank
	}

	var rows []model.CourseModel
	if err := h.DB.Where("course_id IN ?", ids).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load courses")
	}
	if len(rows) != len(ids) {
		return helper.JsonError(c, fiber.StatusNotFound, "One or more courses were not found")
	}

	err = gate.Apply(h.DB, gateReq, gate.RequestMeta{IP: c.IP(), UserAgent: c.Get("User-Agent")},
		func(tx *gorm.DB) (map[string]interface{}, map[string]interface{}, error) {
			before := map[string]interface{}{}
			after := map[string]interface{}{}
			for i := range rows {
				row := &rows[i]
				before[row.CourseID.String()] = row.CourseFeaturedRank
				newRank := rankByID[row.CourseID]
				if err := tx.Model(&model.CourseModel{}).
					Where("course_id = ?", row.CourseID).
					Update("course_featured_rank", newRank).Error; err != nil {
					return nil, nil, err
				}
				after[row.CourseID.String()] = newRank
			}
			return before, after, nil
		})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update featured ranks")
	}

	return helper.JsonOK(c, "Featured ranks updated", nil)
}
