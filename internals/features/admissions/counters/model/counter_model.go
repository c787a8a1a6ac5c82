package model

import "time"

// EnquiryCounter keeps one monotonic sequence per calendar month
// (scope "YYYY-MM"). Rows are created on first use and never deleted.
type EnquiryCounter struct {
	EnquiryCounterScope     string    `json:"enquiry_counter_scope" gorm:"column:enquiry_counter_scope;type:varchar(16);primaryKey"`
	EnquiryCounterLastValue int       `json:"enquiry_counter_last_value" gorm:"column:enquiry_counter_last_value;not null;default:0"`
	CreatedAt               time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt               time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (EnquiryCounter) TableName() string { return "enquiry_counters" }

// ApplicationCounter keeps one monotonic sequence per date + application
// type (scope "YYYYMMDD-TYPE").
type ApplicationCounter struct {
	ApplicationCounterScope     string    `json:"application_counter_scope" gorm:"column:application_counter_scope;type:varchar(32);primaryKey"`
	ApplicationCounterLastValue int       `json:"application_counter_last_value" gorm:"column:application_counter_last_value;not null;default:0"`
	CreatedAt                   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt                   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ApplicationCounter) TableName() string { return "application_counters" }
