package models

import "time"

// WebhookEvent records every inbound Shopify webhook for idempotent
// processing and audit. EventID is the X-Shopify-Webhook-Id header, or a
// payload hash when the header is missing.
type WebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Topic           string     `gorm:"type:varchar(100);not null;index:ux_webhook_events_topic_event,unique,priority:1" json:"topic"`
	EventID         string     `gorm:"type:varchar(191);not null;index:ux_webhook_events_topic_event,unique,priority:2" json:"event_id"`
	ShopDomain      string     `gorm:"type:varchar(255);default:'';index" json:"shop_domain"`
	PayloadJSON     string     `gorm:"type:longtext" json:"payload_json"`
	SignatureValid  bool       `gorm:"default:false" json:"signature_valid"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
