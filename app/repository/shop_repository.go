package repository

import (
	"github.com/chargeward/chargeward/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// shopRepository implements the ShopRepository interface
type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository creates a new shop repository instance
func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

// Upsert creates a shop keyed on its domain, or refreshes token, scope and
// active flag on reinstall. Billing columns are left alone so a returning
// shop keeps its trial/subscription history.
func (r *shopRepository) Upsert(shop *models.Shop) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "domain"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token",
			"scope",
			"is_active",
			"updated_at",
		}),
	}).Create(shop).Error; err != nil {
		return err
	}

	// Ensure ID and billing columns are populated after upsert.
	return r.db.Where("domain = ?", shop.Domain).First(shop).Error
}

// GetByID retrieves a shop by its ID
func (r *shopRepository) GetByID(id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// GetByDomain retrieves a shop by its myshopify domain
func (r *shopRepository) GetByDomain(domain string) (*models.Shop, error) {
	return models.GetShopByDomain(r.db, domain)
}

// Update saves all shop fields
func (r *shopRepository) Update(shop *models.Shop) error {
	return r.db.Save(shop).Error
}

// Deactivate flags a shop as uninstalled and drops its access token
func (r *shopRepository) Deactivate(domain string) error {
	return r.db.Model(&models.Shop{}).Where("domain = ?", domain).
		Updates(map[string]interface{}{"is_active": false, "access_token": ""}).Error
}

// Delete removes a shop row. Dispute rows cascade at the database level.
func (r *shopRepository) Delete(id uint) error {
	return r.db.Delete(&models.Shop{}, id).Error
}

// Count returns the number of connected shops
func (r *shopRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Shop{}).Count(&count).Error
	return count, err
}
