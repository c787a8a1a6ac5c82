package service

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// The upsert-increment must be a single atomic statement, never
// read-then-write: two submissions landing on the same scope in the same
// moment would otherwise compute the same sequence value. The relational
// engine's row lock during the upsert is the only synchronization.

const enquiryUpsertSQL = `
INSERT INTO enquiry_counters (enquiry_counter_scope, enquiry_counter_last_value, created_at, updated_at)
VALUES (?, 1, ?, ?)
ON CONFLICT (enquiry_counter_scope)
DO UPDATE SET enquiry_counter_last_value = enquiry_counters.enquiry_counter_last_value + 1, updated_at = ?
RETURNING enquiry_counter_last_value`

const applicationUpsertSQL = `
INSERT INTO application_counters (application_counter_scope, application_counter_last_value, created_at, updated_at)
VALUES (?, 1, ?, ?)
ON CONFLICT (application_counter_scope)
DO UPDATE SET application_counter_last_value = application_counters.application_counter_last_value + 1, updated_at = ?
RETURNING application_counter_last_value`

// NextEnquirySeq returns the next value of the enquiry sequence for the given
// scope. Failure must abort the caller's whole submission; the reference is
// load-bearing.
func NextEnquirySeq(db *gorm.DB, scope string) (int, error) {
	var seq int
	now := time.Now()
	if err := db.Raw(enquiryUpsertSQL, scope, now, now, now).Scan(&seq).Error; err != nil {
		return 0, fmt.Errorf("enquiry counter %s: %w", scope, err)
	}
	return seq, nil
}

// NextApplicationSeq returns the next value of the application sequence for
// the given scope.
func NextApplicationSeq(db *gorm.DB, scope string) (int, error) {
	var seq int
	now := time.Now()
	if err := db.Raw(applicationUpsertSQL, scope, now, now, now).Scan(&seq).Error; err != nil {
		return 0, fmt.Errorf("application counter %s: %w", scope, err)
	}
	return seq, nil
}

// EnquiryScope keys enquiry sequences by calendar month.
func EnquiryScope(t time.Time) string {
	return t.Format("2006-01")
}

// ApplicationScope keys application sequences by date + submission type.
func ApplicationScope(t time.Time, appType string) string {
	return t.Format("20060102") + "-" + strings.ToUpper(strings.TrimSpace(appType))
}

// FormatEnquiryRef renders ENQ-MM-YYYY-NNNN.
func FormatEnquiryRef(t time.Time, seq int) string {
	return fmt.Sprintf("ENQ-%02d-%04d-%04d", int(t.Month()), t.Year(), seq)
}

// FormatApplicationRef renders APP-SURNAME-YYYY-YYYYMMDD-NNNN, where SURNAME
// is the normalized applicant surname and YYYY the year of birth.
func FormatApplicationRef(surname string, yearOfBirth int, t time.Time, seq int) string {
	return fmt.Sprintf("APP-%s-%04d-%s-%04d", NormalizeSurname(surname), yearOfBirth, t.Format("20060102"), seq)
}

// NormalizeSurname uppercases and keeps ASCII letters only, so the reference
// stays hyphen-separated with no internal spaces or punctuation.
func NormalizeSurname(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "APPLICANT"
	}
	return b.String()
}
