package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "coursedig_backend/internals/features/admissions/enquiries/model"
)

type EnquiryCreateRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Message  string  `json:"message" validate:"required,min=20,max=5000"`

	TurnstileToken string `json:"turnstile_token"`
}

func (r *EnquiryCreateRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Message = strings.TrimSpace(r.Message)
	if r.Phone != nil {
		v := strings.TrimSpace(*r.Phone)
		if v == "" {
			r.Phone = nil
		} else {
			r.Phone = &v
		}
	}
}

type EnquiryStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=responded closed"`
}

type EnquiryResponse struct {
	EnquiryID uuid.UUID `json:"enquiry_id"`
	EnquiryRef string    `json:"enquiry_ref"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToEnquiryResponse(m *model.EnquiryModel) EnquiryResponse {
	return EnquiryResponse{
		EnquiryID:  m.EnquiryID,
		EnquiryRef: m.EnquiryRef,
		FullName:   m.EnquiryFullName,
		Email:      m.EnquiryEmail,
		Phone:      m.EnquiryPhone,
		Message:    m.EnquiryMessage,
		Status:     m.EnquiryStatus,
		CreatedAt:  m.EnquiryCreatedAt,
	}
}
