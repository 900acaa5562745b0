package repository

import (
	"github.com/chargeward/chargeward/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionRepository implements the SessionRepository interface
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository instance
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Upsert creates or refreshes the offline session for a shop
func (r *sessionRepository) Upsert(session *models.Session) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"shop_domain",
			"access_token",
			"scope",
			"is_online",
			"state",
			"expires_at",
			"updated_at",
		}),
	}).Create(session).Error
}

// GetByID retrieves a session by its ID
func (r *sessionRepository) GetByID(id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetByShopDomain retrieves the most recent session for a shop
func (r *sessionRepository) GetByShopDomain(domain string) (*models.Session, error) {
	var session models.Session
	err := r.db.Where("shop_domain = ?", domain).
		Order("updated_at DESC").First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByShopDomain removes all sessions for a shop
func (r *sessionRepository) DeleteByShopDomain(domain string) error {
	return r.db.Where("shop_domain = ?", domain).Delete(&models.Session{}).Error
}
