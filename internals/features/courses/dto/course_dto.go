package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "coursedig_backend/internals/features/courses/model"
)

type CourseCreateRequest struct {
	Title         string `json:"title" validate:"required,min=3,max=150"`
	Summary       string `json:"summary" validate:"required,min=10,max=300"`
	Description   string `json:"description" validate:"omitempty,max=50000"`
	Level         string `json:"level" validate:"required,oneof=foundation diploma degree short_course"`
	DurationWeeks int    `json:"duration_weeks" validate:"omitempty,gte=0,lte=520"`
	IsPublished   *bool  `json:"is_published,omitempty"`

	// Optional explicit slug; generated from the title when absent.
	Slug string `json:"slug" validate:"omitempty,max=120"`
}

func (r *CourseCreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Description = strings.TrimSpace(r.Description)
	r.Slug = strings.TrimSpace(r.Slug)
}

type CourseUpdateRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Summary       *string `json:"summary,omitempty" validate:"omitempty,min=10,max=300"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=50000"`
	Level         *string `json:"level,omitempty" validate:"omitempty,oneof=foundation diploma degree short_course"`
	DurationWeeks *int    `json:"duration_weeks,omitempty" validate:"omitempty,gte=0,lte=520"`
	IsPublished   *bool   `json:"is_published,omitempty"`
}

type CourseFeeUpsertRequest struct {
	Currency          string `json:"currency" validate:"required,len=3"`
	TuitionCents      int64  `json:"tuition_cents" validate:"required,gt=0"`
	RegistrationCents int64  `json:"registration_cents" validate:"omitempty,gte=0"`
}

// FeaturedRankEntry sets one course's home-page rank; nil rank unfeatures it.
type FeaturedRankEntry struct {
	CourseID string `json:"course_id" validate:"required,uuid4"`
	Rank     *int   `json:"rank" validate:"omitempty,gte=1,lte=100"`
}

type FeaturedRanksUpdateRequest struct {
	Ranks          []FeaturedRankEntry `json:"ranks" validate:"required,min=1,max=20,dive"`
	Justification  string              `json:"justification"`
	SecondPassword string              `json:"second_password"`
}

type CourseFeeResponse struct {
	Currency          string `json:"currency"`
	TuitionCents      int64  `json:"tuition_cents"`
	RegistrationCents int64  `json:"registration_cents"`
}

type CourseResponse struct {
	CourseID      uuid.UUID `json:"course_id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Description   string    `json:"description,omitempty"`
	Level         string    `json:"level"`
	DurationWeeks int       `json:"duration_weeks"`
	CoverURL      *string   `json:"cover_url,omitempty"`
	IsPublished   bool      `json:"is_published"`
	FeaturedRank  *int      `json:"featured_rank,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	Fee *CourseFeeResponse `json:"fee,omitempty"`
}

func ToCourseResponse(m *model.CourseModel, fee *model.CourseFeeModel) CourseResponse {
	out := CourseResponse{
		CourseID:      m.CourseID,
		Slug:          m.CourseSlug,
		Title:         m.CourseTitle,
		Summary:       m.CourseSummary,
		Description:   m.CourseDescription,
		Level:         m.CourseLevel,
		DurationWeeks: m.CourseDurationWeeks,
		CoverURL:      m.CourseCoverURL,
		IsPublished:   m.CourseIsPublished,
		FeaturedRank:  m.CourseFeaturedRank,
		CreatedAt:     m.CourseCreatedAt,
	}
	if fee != nil {
		out.Fee = &CourseFeeResponse{
			Currency:          fee.CourseFeeCurrency,
			TuitionCents:      fee.CourseFeeTuitionCents,
			RegistrationCents: fee.CourseFeeRegistrationCents,
		}
	}
	return out
}
