package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriberStatusPending      = "pending"
	SubscriberStatusActive       = "active"
	SubscriberStatusUnsubscribed = "unsubscribed"
)

// SubscriberModel is one newsletter subscription with double opt-in. The
// token authorizes both confirmation and unsubscription links.
type SubscriberModel struct {
	SubscriberID    uuid.UUID `json:"subscriber_id" gorm:"column:subscriber_id;type:uuid;primaryKey"`
	SubscriberEmail string    `json:"subscriber_email" gorm:"column:subscriber_email;type:varchar(255);not null;uniqueIndex:uq_subscribers_email"`
	SubscriberToken string    `json:"-" gorm:"column:subscriber_token;type:varchar(64);not null;uniqueIndex:uq_subscribers_token"`

	SubscriberStatus      string     `json:"subscriber_status" gorm:"column:subscriber_status;type:varchar(16);not null;default:'pending';index:idx_subscribers_status"`
	SubscriberConfirmedAt *time.Time `json:"subscriber_confirmed_at,omitempty" gorm:"column:subscriber_confirmed_at"`

	SubscriberCreatedAt time.Time `json:"subscriber_created_at" gorm:"column:subscriber_created_at;not null;autoCreateTime"`
	SubscriberUpdatedAt time.Time `json:"subscriber_updated_at" gorm:"column:subscriber_updated_at;not null;autoUpdateTime"`
}

func (SubscriberModel) TableName() string { return "newsletter_subscribers" }

func (m *SubscriberModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubscriberID == uuid.Nil {
		m.SubscriberID = uuid.New()
	}
	if m.SubscriberStatus == "" {
		m.SubscriberStatus = SubscriberStatusPending
	}
	return nil
}
