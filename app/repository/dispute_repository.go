package repository

import (
	"github.com/chargeward/chargeward/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// disputeRepository implements the DisputeRepository interface
type disputeRepository struct {
	db *gorm.DB
}

// NewDisputeRepository creates a new dispute repository instance
func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &disputeRepository{db: db}
}

// Upsert persists one canonical record under (shop_id, remote_id). First
// occurrence creates with all fields; repeats update every mutable field and
// refresh updated_at, but never touch created_at or the key itself.
func (r *disputeRepository) Upsert(dispute *models.Dispute) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "shop_id"},
			{Name: "remote_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"order_id",
			"order_name",
			"customer_email",
			"status",
			"reason",
			"chargeback_type",
			"amount",
			"currency_code",
			"evidence_due_by",
			"evidence_submitted",
			"raw_payload_json",
			"updated_at",
		}),
	}).Create(dispute).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("shop_id = ? AND remote_id = ?", dispute.ShopID, dispute.RemoteID).
		First(dispute).Error
}

// GetByID retrieves a dispute by its local ID
func (r *disputeRepository) GetByID(id uint) (*models.Dispute, error) {
	var dispute models.Dispute
	if err := r.db.First(&dispute, id).Error; err != nil {
		return nil, err
	}
	return &dispute, nil
}

// GetByRemoteID retrieves a dispute by its composite natural key
func (r *disputeRepository) GetByRemoteID(shopID uint, remoteID string) (*models.Dispute, error) {
	var dispute models.Dispute
	err := r.db.Where("shop_id = ? AND remote_id = ?", shopID, remoteID).First(&dispute).Error
	if err != nil {
		return nil, err
	}
	return &dispute, nil
}

// ListByShop retrieves a shop's disputes newest-first with pagination
func (r *disputeRepository) ListByShop(shopID uint, offset, limit int) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.Where("shop_id = ?", shopID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&disputes).Error
	return disputes, err
}

// CountByShop returns the number of disputes stored for a shop
func (r *disputeRepository) CountByShop(shopID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Dispute{}).Where("shop_id = ?", shopID).Count(&count).Error
	return count, err
}

// RedactCustomerEmail nulls the customer email on all of a shop's disputes
// matching the redacted address and reports how many rows changed.
func (r *disputeRepository) RedactCustomerEmail(shopID uint, email string) (int64, error) {
	tx := r.db.Model(&models.Dispute{}).
		Where("shop_id = ? AND customer_email = ?", shopID, email).
		Update("customer_email", nil)
	return tx.RowsAffected, tx.Error
}

// DeleteByShop removes all dispute rows for a shop
func (r *disputeRepository) DeleteByShop(shopID uint) error {
	return r.db.Where("shop_id = ?", shopID).Delete(&models.Dispute{}).Error
}
