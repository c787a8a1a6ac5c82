package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "coursedig_backend/internals/features/courses/dto"
	model "coursedig_backend/internals/features/courses/model"
	helper "coursedig_backend/internals/helpers"
)

// CourseController serves the public catalog: published courses only.
type CourseController struct {
	DB *gorm.DB
}

var validate = validator.New()

// =========================================================
// LIST - GET /api/courses
// =========================================================
func (h *CourseController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 12, 50)

	q := h.DB.Model(&model.CourseModel{}).Where("course_is_published = ?", true)
	if level := strings.TrimSpace(c.Query("level")); level != "" {
		q = q.Where("course_level = ?", level)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(course_title) LIKE ? OR lower(course_summary) LIKE ?", like, like)
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
// DETAIL - GET /api/courses/:slug
// =========================================================
func (h *CourseController) GetBySlug(c *fiber.Ctx) error {
	slug := strings.ToLower(strings.TrimSpace(c.Params("slug")))
	if slug == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Slug is required")
	}

	var row model.CourseModel
	if err := h.DB.First(&row, "course_slug = ? AND course_is_published = ?", slug, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}

	var fee model.CourseFeeModel
	feePtr := &fee
	if err := h.DB.First(&fee, "course_fee_course_id = ?", row.CourseID).Error; err != nil {
		feePtr = nil
	}

	return helper.JsonOK(c, "OK", dto.ToCourseResponse(&row, feePtr))
}

// =========================================================
// FEATURED - GET /api/home/featured
// =========================================================
func (h *CourseController) Featured(c *fiber.Ctx) error {
	var rows []model.CourseModel
	if err := h.DB.
		Where("course_is_published = ? AND course_featured_rank IS NOT NULL", true).
		Order("course_featured_rank ASC").
		Limit(12).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list featured courses")
	}

	out := make([]dto.CourseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToCourseResponse(&rows[i], nil))
	}
	return helper.JsonOK(c, "OK", fiber.Map{"courses": out})
}
