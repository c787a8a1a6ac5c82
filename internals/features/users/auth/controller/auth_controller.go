package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"coursedig_backend/internals/configs"
	dto "coursedig_backend/internals/features/users/auth/dto"
	model "coursedig_backend/internals/features/users/auth/model"
	service "coursedig_backend/internals/features/users/auth/service"
	helper "coursedig_backend/internals/helpers"
	helperAuth "coursedig_backend/internals/helpers/auth"
	"coursedig_backend/internals/helpers/mailer"
)

type AuthController struct {
	DB     *gorm.DB
	Mailer mailer.Mailer
}

var validate = validator.New()

// =========================================================
// REGISTER - POST /api/auth/register
// =========================================================
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	hashed, err := service.HashPassword(req.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process password")
	}

	user := model.UserModel{
		UserName: req.UserName,
		Email:    req.Email,
		Password: hashed,
	}

	// In production the verification email is part of the registration unit:
	// if it cannot be sent, the user row must not exist either.
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if err := h.sendVerificationEmail(&user); err != nil {
			if configs.IsProduction() {
				return fmt.Errorf("verification email: %w", err)
			}
			log.Printf("[AUTH] verification email for %s skipped: %v", user.Email, err)
		}
		return nil
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email is already registered")
		}
		log.Printf("[AUTH] register failed: %v", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Registration could not be completed, please try again")
	}

	return helper.JsonCreated(c, "Registration successful, please verify your email", dto.ToUserResponse(&user))
}

func (h *AuthController) sendVerificationEmail(user *model.UserModel) error {
	token, err := service.CreateEmailVerifyToken(user)
	if err != nil {
		return err
	}
	link := configs.GetEnv("APP_BASE_URL", "http://localhost:3000") + "/api/auth/verify-email?token=" + token
	return h.Mailer.Send(mailer.Message{
		To:      user.Email,
		Subject: "Verify your CourseDig account",
		HTML:    fmt.Sprintf(`<p>Hi %s,</p><p>Please confirm your email address by clicking <a href="%s">this link</a>.</p>`, user.UserName, link),
		Text:    "Please confirm your email address: " + link,
	})
}

// =========================================================
// LOGIN - POST /api/auth/login
// =========================================================
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user model.UserModel
	if err := h.DB.Where("lower(email) = lower(?)", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to look up account")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
	}
	if !service.CheckPassword(user.Password, req.Password) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	return h.respondWithTokenPair(c, &user, "Login successful")
}

// =========================================================
// GOOGLE LOGIN - POST /api/auth/google
// =========================================================
func (h *AuthController) GoogleLogin(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if configs.GoogleClientID == "" {
		return helper.JsonError(c, fiber.StatusBadGateway, "Google sign-in is not configured")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil || claimSet.Email == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google token")
	}

	var user model.UserModel
	err = h.DB.Where("google_id = ? OR lower(email) = lower(?)", claimSet.Sub, claimSet.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now()
		name := claimSet.Name
		if name == "" {
			name = claimSet.Email
		}
		sub := claimSet.Sub
		user = model.UserModel{
			UserName:        name,
			Email:           claimSet.Email,
			Password:        uuid.NewString(), // unusable; Google accounts sign in via token
			GoogleID:        &sub,
			EmailVerifiedAt: &now,
		}
		if user.Password, err = service.HashPassword(user.Password); err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create account")
		}
		if err := h.DB.Create(&user).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create account")
		}
	case err != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to look up account")
	default:
		if user.GoogleID == nil {
			sub := claimSet.Sub
			updates := map[string]interface{}{"google_id": sub}
			if user.EmailVerifiedAt == nil {
				now := time.Now()
				updates["email_verified_at"] = now
				user.EmailVerifiedAt = &now
			}
			if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to link Google account")
			}
			user.GoogleID = &sub
		}
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
	}

	return h.respondWithTokenPair(c, &user, "Login successful")
}

// =========================================================
// REFRESH - POST /api/auth/refresh
// =========================================================
func (h *AuthController) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	claims, err := service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}
	idStr, _ := claims["id"].(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	var user model.UserModel
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Account not found")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
	}

	return h.respondWithTokenPair(c, &user, "Token refreshed")
}

// =========================================================
// LOGOUT - POST /api/auth/logout
// =========================================================
func (h *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	token := ""
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	} else if cookie := c.Cookies("access_token"); cookie != "" {
		token = cookie
	}
	if token == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "No token to revoke")
	}

	entry := model.TokenBlacklist{
		Token:     token,
		ExpiredAt: time.Now().Add(service.AccessTokenTTL),
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to revoke token")
	}
	return helper.JsonOK(c, "Logged out", nil)
}

// =========================================================
// ME - GET /api/u/me
// =========================================================
func (h *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var user model.UserModel
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Account not found")
	}
	return helper.JsonOK(c, "OK", dto.ToUserResponse(&user))
}

// =========================================================
// VERIFY EMAIL - GET /api/auth/verify-email?token=...
// Self-service path; the manual admin path goes through the approval gate.
// =========================================================
func (h *AuthController) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing token")
	}
	idStr, err := service.ParseEmailVerifyToken(token)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid or expired verification link")
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid verification link")
	}

	var user model.UserModel
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Account not found")
	}
	if user.IsEmailVerified() {
		return helper.JsonOK(c, "Email is already verified", fiber.Map{"already_verified": true})
	}

	now := time.Now()
	if err := h.DB.Model(&user).Update("email_verified_at", now).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to verify email")
	}
	return helper.JsonOK(c, "Email verified", nil)
}

func (h *AuthController) respondWithTokenPair(c *fiber.Ctx, user *model.UserModel, message string) error {
	access, err := service.CreateAccessToken(user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	refresh, err := service.CreateRefreshToken(user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	return helper.JsonOK(c, message, dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         dto.ToUserResponse(user),
	})
}
