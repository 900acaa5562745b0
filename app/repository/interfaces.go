package repository

import (
	"github.com/chargeward/chargeward/app/models"
)

// ShopRepository defines the interface for shop-related database operations
type ShopRepository interface {
	Upsert(shop *models.Shop) error
	GetByID(id uint) (*models.Shop, error)
	GetByDomain(domain string) (*models.Shop, error)
	Update(shop *models.Shop) error
	Deactivate(domain string) error
	Delete(id uint) error
	Count() (int64, error)
}

// SessionRepository defines the interface for OAuth session storage
type SessionRepository interface {
	Upsert(session *models.Session) error
	GetByID(id string) (*models.Session, error)
	GetByShopDomain(domain string) (*models.Session, error)
	DeleteByShopDomain(domain string) error
}

// DisputeRepository defines the interface for dispute-related database operations
type DisputeRepository interface {
	Upsert(dispute *models.Dispute) error
	GetByID(id uint) (*models.Dispute, error)
	GetByRemoteID(shopID uint, remoteID string) (*models.Dispute, error)
	ListByShop(shopID uint, offset, limit int) ([]models.Dispute, error)
	CountByShop(shopID uint) (int64, error)
	RedactCustomerEmail(shopID uint, email string) (int64, error)
	DeleteByShop(shopID uint) error
}

// DisputeResponseRepository defines the interface for drafted response rows
type DisputeResponseRepository interface {
	Create(response *models.DisputeResponse) error
	GetLatestByDispute(disputeID uint) (*models.DisputeResponse, error)
	ListByDispute(disputeID uint) ([]models.DisputeResponse, error)
	ListByShop(shopID uint) ([]models.DisputeResponse, error)
	DeleteByShop(shopID uint) error
}

// WebhookEventRepository defines the interface for inbound webhook records
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
}

// Repositories bundles all repository implementations
type Repositories struct {
	Shop            ShopRepository
	Session         SessionRepository
	Dispute         DisputeRepository
	DisputeResponse DisputeResponseRepository
	WebhookEvent    WebhookEventRepository
}
