package repository

import (
	"github.com/chargeward/chargeward/app/models"
	"gorm.io/gorm"
)

// disputeResponseRepository implements the DisputeResponseRepository interface
type disputeResponseRepository struct {
	db *gorm.DB
}

// NewDisputeResponseRepository creates a new dispute response repository instance
func NewDisputeResponseRepository(db *gorm.DB) DisputeResponseRepository {
	return &disputeResponseRepository{db: db}
}

// Create appends a new draft row. Drafts are never updated in place.
func (r *disputeResponseRepository) Create(response *models.DisputeResponse) error {
	return r.db.Create(response).Error
}

// GetLatestByDispute retrieves the most recent draft for a dispute
func (r *disputeResponseRepository) GetLatestByDispute(disputeID uint) (*models.DisputeResponse, error) {
	var response models.DisputeResponse
	err := r.db.Where("dispute_id = ?", disputeID).
		Order("created_at DESC").First(&response).Error
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListByDispute retrieves all drafts for a dispute, most recent first
func (r *disputeResponseRepository) ListByDispute(disputeID uint) ([]models.DisputeResponse, error) {
	var responses []models.DisputeResponse
	err := r.db.Where("dispute_id = ?", disputeID).
		Order("created_at DESC").Find(&responses).Error
	return responses, err
}

// ListByShop retrieves all drafts belonging to a shop, most recent first
func (r *disputeResponseRepository) ListByShop(shopID uint) ([]models.DisputeResponse, error) {
	var responses []models.DisputeResponse
	err := r.db.Where("shop_id = ?", shopID).
		Order("created_at DESC").Find(&responses).Error
	return responses, err
}

// DeleteByShop removes all draft rows for a shop
func (r *disputeResponseRepository) DeleteByShop(shopID uint) error {
	return r.db.Where("shop_id = ?", shopID).Delete(&models.DisputeResponse{}).Error
}
