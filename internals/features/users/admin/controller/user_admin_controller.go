package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"coursedig_backend/internals/constants"
	auditservice "coursedig_backend/internals/features/audit/service"
	admindto "coursedig_backend/internals/features/users/admin/dto"
	gate "coursedig_backend/internals/features/users/admin/service"
	authdto "coursedig_backend/internals/features/users/auth/dto"
	usermodel "coursedig_backend/internals/features/users/auth/model"
	authservice "coursedig_backend/internals/features/users/auth/service"
	helper "coursedig_backend/internals/helpers"
	helperAuth "coursedig_backend/internals/helpers/auth"
)

type UserAdminController struct {
	DB *gorm.DB
}

var validate = validator.New()

func (h *UserAdminController) loadActor(c *fiber.Ctx) (*usermodel.UserModel, error) {
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

func gateMeta(c *fiber.Ctx) gate.RequestMeta {
	return gate.RequestMeta{IP: c.IP(), UserAgent: c.Get("User-Agent")}
}

// =========================================================
// LIST - GET /api/admin/users
// =========================================================
func (h *UserAdminController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&usermodel.UserModel{})
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(email) LIKE ? OR lower(user_name) LIKE ?", like, like)
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}

	var users []usermodel.UserModel
	if err := q.Order("created_at DESC").Offset(paging.Offset).Limit(paging.Limit).Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list users")
	}

	out := make([]authdto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, authdto.ToUserResponse(&users[i]))
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"users":      out,
		"pagination": helper.BuildPagination(total, paging.Page, paging.PerPage),
	})
}

// =========================================================
// CHANGE ROLE - PATCH /api/admin/users/:id/role
// =========================================================
func (h *UserAdminController) ChangeRole(c *fiber.Ctx) error {
	actor, err := h.loadActor(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	targetID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req admindto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var target usermodel.UserModel
	if err := h.DB.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	kind := roleChangeKind(target.Role, req.Role)

	gateReq := gate.GateRequest{
		Kind:           kind,
		Actor:          actor,
		TargetUserID:   target.ID,
		Justification:  req.Justification,
		SecondPassword: req.SecondPassword,
	}
	if gerr := gate.Authorize(gateReq); gerr != nil {
		return helper.JsonErrorWithCode(c, gerr.Status, gerr.Code, gerr.Message)
	}

	// Idempotent short-circuit: no redundant mutation, no audit row.
	if target.Role == req.Role {
		return helper.JsonOK(c, "User already has this role", fiber.Map{"already_applied": true})
	}

	oldRole := target.Role
	err = gate.Apply(h.DB, gateReq, gateMeta(c), func(tx *gorm.DB) (map[string]interface{}, map[string]interface{}, error) {
		if err := tx.Model(&usermodel.UserModel{}).Where("id = ?", target.ID).
			Update("role", req.Role).Error; err != nil {
			return nil, nil, err
		}
		return map[string]interface{}{"role": oldRole},
			map[string]interface{}{"role": req.Role}, nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to change role")
	}

	target.Role = req.Role
	return helper.JsonOK(c, "Role updated", authdto.ToUserResponse(&target))
}

// roleChangeKind maps the current/requested role pair to the audited action
// kind.
func roleChangeKind(current, requested string) gate.ActionKind {
	switch requested {
	case constants.RoleSuperAdmin:
		return gate.ActionPromoteSuperAdmin
	case constants.RoleAdmin:
		if current == constants.RoleSuperAdmin {
			return gate.ActionDemoteSuperAdmin
		}
		return gate.ActionPromoteAdmin
	default:
		return gate.ActionDemoteAdmin
	}
}

// =========================================================
// MANUAL EMAIL VERIFICATION - POST /api/admin/users/:id/verify-email
// =========================================================
func (h *UserAdminController) VerifyEmail(c *fiber.Ctx) error {
	actor, err := h.loadActor(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	targetID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req admindto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	var target usermodel.UserModel
	if err := h.DB.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	gateReq := gate.GateRequest{
		Kind:           gate.ActionVerifyEmail,
		Actor:          actor,
		TargetUserID:   target.ID,
		Justification:  req.Justification,
		SecondPassword: req.SecondPassword,
	}
	if gerr := gate.Authorize(gateReq); gerr != nil {
		return helper.JsonErrorWithCode(c, gerr.Status, gerr.Code, gerr.Message)
	}

	if target.IsEmailVerified() {
		return helper.JsonOK(c, "Email is already verified", fiber.Map{"already_applied": true})
	}

	now := time.Now()
	err = gate.Apply(h.DB, gateReq, gateMeta(c), func(tx *gorm.DB) (map[string]interface{}, map[string]interface{}, error) {
		if err := tx.Model(&usermodel.UserModel{}).Where("id = ?", target.ID).
			Update("email_verified_at", now).Error; err != nil {
			return nil, nil, err
		}
		return map[string]interface{}{"email_verified_at": nil},
			map[string]interface{}{"email_verified_at": now}, nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to verify email")
	}

	target.EmailVerifiedAt = &now
	return helper.JsonOK(c, "Email verified", authdto.ToUserResponse(&target))
}

// =========================================================
// SET SECOND PASSWORD - POST /api/admin/users/me/second-password
// The one account mutation that is deliberately self-targeted, so it does
// not go through the gate's self-action guard; it still requires the login
// password and is durably audited.
// =========================================================
func (h *UserAdminController) SetSecondPassword(c *fiber.Ctx) error {
	actor, err := h.loadActor(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !actor.IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can configure a secondary password")
	}

	var req admindto.SetSecondPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if !authservice.CheckPassword(actor.Password, req.CurrentPassword) {
		return helper.JsonError(c, fiber.StatusForbidden, "Current password is incorrect")
	}

	hash, err := authservice.HashPassword(req.SecondPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process password")
	}

	hadSecondFactor := actor.SecondPasswordHash != nil
	targetID := actor.ID
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&usermodel.UserModel{}).Where("id = ?", actor.ID).
			Update("second_password_hash", hash).Error; err != nil {
			return err
		}
		return auditservice.Record(tx, auditservice.Entry{
			Action:    "USER_SET_SECOND_PASSWORD",
			ActorID:   actor.ID,
			TargetID:  &targetID,
			Before:    map[string]interface{}{"has_second_factor": hadSecondFactor},
			After:     map[string]interface{}{"has_second_factor": true},
			IP:        c.IP(),
			UserAgent: c.Get("User-Agent"),
		})
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to set secondary password")
	}

	return helper.JsonOK(c, "Secondary password configured", nil)
}
