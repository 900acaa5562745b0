package models

import (
	"strings"
	"time"
)

// ChargebackIDPrefix namespaces chargeback-sourced rows apart from true
// dispute rows that may share the same trailing numeric id segment.
const ChargebackIDPrefix = "chargeback-"

// Dispute is one row per remote dispute-or-chargeback. The composite natural
// key is (shop_id, remote_id); re-ingesting the same remote id updates the
// row, never duplicates it. Chargebacks are stored as the same entity with a
// prefixed remote id rather than a separate table.
type Dispute struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ShopID            uint       `gorm:"not null;index:ux_disputes_shop_remote,unique,priority:1" json:"shop_id"`
	RemoteID          string     `gorm:"type:varchar(191);not null;index:ux_disputes_shop_remote,unique,priority:2" json:"remote_id"`
	OrderID           *string    `gorm:"type:varchar(191);default:null" json:"order_id,omitempty"`
	OrderName         *string    `gorm:"type:varchar(191);default:null" json:"order_name,omitempty"`
	CustomerEmail     *string    `gorm:"type:varchar(200);default:null" json:"customer_email,omitempty"`
	Status            *string    `gorm:"type:varchar(64);default:null" json:"status,omitempty"`
	Reason            *string    `gorm:"type:varchar(191);default:null" json:"reason,omitempty"`
	ChargebackType    *string    `gorm:"type:varchar(64);default:null" json:"chargeback_type,omitempty"`
	Amount            *float64   `gorm:"type:decimal(12,2);default:null" json:"amount,omitempty"`
	CurrencyCode      *string    `gorm:"type:varchar(8);default:null" json:"currency_code,omitempty"`
	EvidenceDueBy     *time.Time `gorm:"type:timestamp;default:null" json:"evidence_due_by,omitempty"`
	EvidenceSubmitted bool       `gorm:"default:false" json:"evidence_submitted"`
	RawPayloadJSON    string     `gorm:"type:longtext" json:"raw_payload_json"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Responses []DisputeResponse `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsChargeback reports whether this row was synthesized from an order
// transaction rather than a true dispute object.
func (d *Dispute) IsChargeback() bool {
	return strings.HasPrefix(d.RemoteID, ChargebackIDPrefix)
}
