package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "coursedig_backend/internals/features/users/auth/model"
)

type RegisterRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *RegisterRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserName        string     `json:"user_name"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	IsAdmin         bool       `json:"is_admin"`
	IsSuperAdmin    bool       `json:"is_super_admin"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	HasSecondFactor bool       `json:"has_second_factor"`
	CreatedAt       time.Time  `json:"created_at"`
}

func ToUserResponse(u *model.UserModel) UserResponse {
	return UserResponse{
		ID:              u.ID,
		UserName:        u.UserName,
		Email:           u.Email,
		Role:            u.Role,
		IsAdmin:         u.IsAdmin(),
		IsSuperAdmin:    u.IsSuperAdmin(),
		EmailVerifiedAt: u.EmailVerifiedAt,
		HasSecondFactor: u.SecondPasswordHash != nil,
		CreatedAt:       u.CreatedAt,
	}
}

type TokenPairResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}
