package repository

import (
	"sync"

	"gorm.io/gorm"
)

// NewRepositories wires every repository implementation to one DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Shop:            NewShopRepository(db),
		Session:         NewSessionRepository(db),
		Dispute:         NewDisputeRepository(db),
		DisputeResponse: NewDisputeResponseRepository(db),
		WebhookEvent:    NewWebhookEventRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetShopRepository returns the shop repository instance
func (f *Factory) GetShopRepository() ShopRepository {
	return f.GetRepositories().Shop
}

// GetSessionRepository returns the session repository instance
func (f *Factory) GetSessionRepository() SessionRepository {
	return f.GetRepositories().Session
}

// GetDisputeRepository returns the dispute repository instance
func (f *Factory) GetDisputeRepository() DisputeRepository {
	return f.GetRepositories().Dispute
}

// GetDisputeResponseRepository returns the dispute response repository instance
func (f *Factory) GetDisputeResponseRepository() DisputeResponseRepository {
	return f.GetRepositories().DisputeResponse
}

// GetWebhookEventRepository returns the webhook event repository instance
func (f *Factory) GetWebhookEventRepository() WebhookEventRepository {
	return f.GetRepositories().WebhookEvent
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}

// SetGlobalRepositories replaces the global repository set with the given
// implementations. Intended for tests.
func SetGlobalRepositories(repos *Repositories) {
	f := &Factory{}
	f.once.Do(func() {})
	f.repos = repos
	factoryOnce.Do(func() {})
	globalFactory = f
}
