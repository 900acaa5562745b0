package models

import "time"

// DisputeResponse is one drafted response text per row. Rows are append-only;
// callers read the most recent draft. A new row is created per save, never an
// in-place update.
type DisputeResponse struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DisputeID uint      `gorm:"not null;index" json:"dispute_id"`
	ShopID    uint      `gorm:"not null;index" json:"shop_id"`
	Draft     string    `gorm:"type:longtext" json:"draft"`
	Model     string    `gorm:"type:varchar(100);default:''" json:"model"`
	IsFinal   bool      `gorm:"default:false" json:"is_final"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
