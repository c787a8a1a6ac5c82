package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusExpired = "expired"
)

// ApplicationInvoiceModel is one payment link issued for an accepted
// application. The Snap token and redirect URL come from the gateway.
type ApplicationInvoiceModel struct {
	InvoiceID            uuid.UUID `json:"invoice_id" gorm:"column:invoice_id;type:uuid;primaryKey"`
	InvoiceApplicationID uuid.UUID `json:"invoice_application_id" gorm:"column:invoice_application_id;type:uuid;not null;index:idx_invoices_application"`
	InvoiceOrderID       string    `json:"invoice_order_id" gorm:"column:invoice_order_id;type:varchar(64);not null;uniqueIndex:uq_invoices_order"`

	InvoiceAmountCents int64  `json:"invoice_amount_cents" gorm:"column:invoice_amount_cents;not null"`
	InvoiceCurrency    string `json:"invoice_currency" gorm:"column:invoice_currency;type:varchar(3);not null"`

	InvoiceSnapToken   string `json:"invoice_snap_token" gorm:"column:invoice_snap_token;type:varchar(128);not null"`
	InvoiceRedirectURL string `json:"invoice_redirect_url" gorm:"column:invoice_redirect_url;type:text;not null"`

	InvoiceStatus string `json:"invoice_status" gorm:"column:invoice_status;type:varchar(16);not null;default:'pending';index:idx_invoices_status"`

	InvoiceCreatedAt time.Time `json:"invoice_created_at" gorm:"column:invoice_created_at;not null;autoCreateTime"`
	InvoiceUpdatedAt time.Time `json:"invoice_updated_at" gorm:"column:invoice_updated_at;not null;autoUpdateTime"`
}

func (ApplicationInvoiceModel) TableName() string { return "application_invoices" }

func (m *ApplicationInvoiceModel) BeforeCreate(tx *gorm.DB) error {
	if m.InvoiceID == uuid.Nil {
		m.InvoiceID = uuid.New()
	}
	if m.InvoiceStatus == "" {
		m.InvoiceStatus = InvoiceStatusPending
	}
	return nil
}
