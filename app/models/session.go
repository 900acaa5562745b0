package models

import "time"

// Session stores an offline OAuth session per shop. Shopify hands us one
// token per install; the row is removed on uninstall and shop redact.
type Session struct {
	ID          string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ShopDomain  string     `gorm:"type:varchar(255);not null;index" json:"shop_domain"`
	AccessToken string     `gorm:"type:text" json:"-"`
	Scope       string     `gorm:"type:varchar(500);default:''" json:"scope"`
	IsOnline    bool       `gorm:"default:false" json:"is_online"`
	State       string     `gorm:"type:varchar(100);default:''" json:"-"`
	ExpiresAt   *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
