package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coursedig_backend/internals/constants"
)

// UserModel represents the users table. Role is a single enum
// (user/admin/super_admin); a super admin is an admin for access purposes.
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"size:50;not null" json:"user_name" validate:"required,min=3,max=50"`
	Email    string    `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	Password string    `gorm:"not null" json:"-"`
	GoogleID *string   `gorm:"size:255;unique" json:"google_id,omitempty"`
	Role     string    `gorm:"type:varchar(20);not null;default:'user'" json:"-"`

	// Second factor for the most sensitive admin actions; separate from the
	// login password. Nil means not configured.
	SecondPasswordHash *string `gorm:"size:255" json:"-" `

	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = constants.RoleUser
	}
	return nil
}

func (u *UserModel) IsAdmin() bool {
	return u.Role == constants.RoleAdmin || u.Role == constants.RoleSuperAdmin
}

func (u *UserModel) IsSuperAdmin() bool {
	return u.Role == constants.RoleSuperAdmin
}

func (u *UserModel) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}
