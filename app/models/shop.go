package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	PlanTrial   = "trial"
	PlanStarter = "starter"
	PlanPro     = "pro"
)

// Shop is one row per connected store. Domain is the natural key: a shop is
// upserted on first authenticated request and reactivated on reinstall.
type Shop struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Domain               string     `gorm:"uniqueIndex;type:varchar(255);not null" json:"domain" validate:"required,hostname"`
	AccessToken          string     `gorm:"type:text" json:"-"`
	Scope                string     `gorm:"type:varchar(500);default:''" json:"scope"`
	IsActive             bool       `gorm:"default:true;index" json:"is_active"`
	TrialStartsAt        *time.Time `gorm:"type:timestamp;default:null" json:"trial_starts_at,omitempty"`
	TrialEndsAt          *time.Time `gorm:"type:timestamp;default:null" json:"trial_ends_at,omitempty"`
	SubscriptionStartsAt *time.Time `gorm:"type:timestamp;default:null" json:"subscription_starts_at,omitempty"`
	SubscriptionEndsAt   *time.Time `gorm:"type:timestamp;default:null" json:"subscription_ends_at,omitempty"`
	BillingActive        bool       `gorm:"default:false;index" json:"billing_active"`
	PlanName             string     `gorm:"type:varchar(50);default:''" json:"plan_name"`
	BillingCheckedAt     *time.Time `gorm:"type:timestamp;default:null" json:"billing_checked_at,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Disputes []Dispute `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Shop) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// StartTrial sets a trial window beginning now.
func (s *Shop) StartTrial(days int) {
	now := time.Now()
	end := now.AddDate(0, 0, days)
	s.TrialStartsAt = &now
	s.TrialEndsAt = &end
}

// GetShopByDomain loads a shop by its myshopify domain.
func GetShopByDomain(db *gorm.DB, domain string) (*Shop, error) {
	var shop Shop
	if err := db.Where("domain = ?", domain).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}
