package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"coursedig_backend/internals/constants"
	model "coursedig_backend/internals/features/admissions/applications/model"
)

// AttachmentDescriptor is one already-uploaded object the applicant is
// attaching. The object key must have been issued by the presign broker for
// this user.
type AttachmentDescriptor struct {
	FileName  string `json:"file_name" validate:"required,max=255"`
	MimeType  string `json:"mime_type" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"required,gt=0"`
	ObjectKey string `json:"object_key" validate:"required,max=512"`
}

type ApplicationCreateRequest struct {
	FirstName   string  `json:"first_name" validate:"required,min=1,max=80"`
	LastName    string  `json:"last_name" validate:"required,min=1,max=80"`
	DateOfBirth string  `json:"date_of_birth" validate:"required"` // YYYY-MM-DD
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Statement   string  `json:"statement" validate:"required,min=100,max=10000"`
	CourseID    string  `json:"course_id" validate:"required,uuid4"`

	Attachments []AttachmentDescriptor `json:"attachments" validate:"max=5,dive"`
}

func (r *ApplicationCreateRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Statement = strings.TrimSpace(r.Statement)
	if r.Phone != nil {
		v := strings.TrimSpace(*r.Phone)
		if v == "" {
			r.Phone = nil
		} else {
			r.Phone = &v
		}
	}
}

// ParseDateOfBirth accepts strict YYYY-MM-DD and refuses dates in the future.
func (r *ApplicationCreateRequest) ParseDateOfBirth() (time.Time, error) {
	dob, err := time.Parse("2006-01-02", r.DateOfBirth)
	if err != nil {
		return time.Time{}, fmt.Errorf("date_of_birth must be YYYY-MM-DD")
	}
	if dob.After(time.Now()) {
		return time.Time{}, fmt.Errorf("date_of_birth cannot be in the future")
	}
	return dob, nil
}

// ValidateAttachments re-applies the upload ceilings at submission time; the
// presign broker enforced them once, but descriptors arrive from the client
// again here.
func (r *ApplicationCreateRequest) ValidateAttachments() error {
	if len(r.Attachments) > constants.MaxAttachmentCount {
		return fmt.Errorf("at most %d attachments", constants.MaxAttachmentCount)
	}
	var total int64
	for i, a := range r.Attachments {
		if !constants.AllowedAttachmentMIME[a.MimeType] {
			return fmt.Errorf("attachment #%d: type %q is not allowed", i+1, a.MimeType)
		}
		if a.SizeBytes > constants.MaxAttachmentBytes {
			return fmt.Errorf("attachment #%d: exceeds the per-file limit", i+1)
		}
		total += a.SizeBytes
	}
	if total > constants.MaxAttachmentBatchSize {
		return fmt.Errorf("attachments exceed the batch size limit")
	}
	return nil
}

type ApplicationStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=under_review accepted rejected"`
}

type AttachmentResponse struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	FileName     string    `json:"file_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	ObjectKey    string    `json:"object_key"`
}

type ApplicationResponse struct {
	ApplicationID  uuid.UUID `json:"application_id"`
	ApplicationRef string    `json:"application_ref"`
	UserID         uuid.UUID `json:"user_id"`
	CourseID       uuid.UUID `json:"course_id"`

	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DateOfBirth string  `json:"date_of_birth"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Statement   string  `json:"statement"`

	Status      string               `json:"status"`
	Attachments []AttachmentResponse `json:"attachments"`
	CreatedAt   time.Time            `json:"created_at"`
}

func ToApplicationResponse(m *model.ApplicationModel) ApplicationResponse {
	atts := make([]AttachmentResponse, 0, len(m.Attachments))
	for i := range m.Attachments {
		a := &m.Attachments[i]
		atts = append(atts, AttachmentResponse{
			AttachmentID: a.AttachmentID,
			FileName:     a.AttachmentFileName,
			MimeType:     a.AttachmentMimeType,
			SizeBytes:    a.AttachmentSizeBytes,
			ObjectKey:    a.AttachmentObjectKey,
		})
	}
	return ApplicationResponse{
		ApplicationID:  m.ApplicationID,
		ApplicationRef: m.ApplicationRef,
		UserID:         m.ApplicationUserID,
		CourseID:       m.ApplicationCourseID,
		FirstName:      m.ApplicationFirstName,
		LastName:       m.ApplicationLastName,
		DateOfBirth:    m.ApplicationDateOfBirth.Format("2006-01-02"),
		Email:          m.ApplicationEmail,
		Phone:          m.ApplicationPhone,
		Statement:      m.ApplicationStatement,
		Status:         m.ApplicationStatus,
		Attachments:    atts,
		CreatedAt:      m.ApplicationCreatedAt,
	}
}
