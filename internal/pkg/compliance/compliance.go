package compliance

import (
	"context"
	"errors"
	"fmt"

	"github.com/chargeward/chargeward/app/models"
	"github.com/chargeward/chargeward/app/repository"
	"gorm.io/gorm"
)

// Service implements the mandatory privacy webhooks: customer data request,
// customer redact, and shop redact.
type Service struct {
	repos *repository.Repositories
}

// NewService creates a compliance service over the injected repositories.
func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// DataBundle is everything we hold about a shop's customers, assembled for a
// customers/data_request webhook. Delivery to the merchant happens out of
// band; we only collect here.
type DataBundle struct {
	ShopDomain string                   `json:"shop_domain"`
	Disputes   []models.Dispute         `json:"disputes"`
	Responses  []models.DisputeResponse `json:"responses"`
}

// DataRequest collects the stored disputes and drafted responses for a shop.
// An unknown shop yields an empty bundle, not an error.
func (s *Service) DataRequest(ctx context.Context, shopDomain string) (*DataBundle, error) {
	_ = ctx
	bundle := &DataBundle{ShopDomain: shopDomain}

	shop, err := s.repos.Shop.GetByDomain(shopDomain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bundle, nil
		}
		return nil, err
	}

	disputes, err := s.repos.Dispute.ListByShop(shop.ID, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to collect disputes: %w", err)
	}
	bundle.Disputes = disputes

	responses, err := s.repos.DisputeResponse.ListByShop(shop.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect responses: %w", err)
	}
	bundle.Responses = responses

	return bundle, nil
}

// CustomerRedact nulls the redacted customer's email on the shop's dispute
// rows. Returns how many rows changed; an unknown shop redacts nothing.
func (s *Service) CustomerRedact(ctx context.Context, shopDomain, customerEmail string) (int64, error) {
	_ = ctx
	if customerEmail == "" {
		return 0, nil
	}

	shop, err := s.repos.Shop.GetByDomain(shopDomain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return s.repos.Dispute.RedactCustomerEmail(shop.ID, customerEmail)
}

// ShopRedact removes everything stored for a shop: drafted responses first,
// then disputes, then OAuth sessions, then the shop row itself. Succeeds
// when the shop is already absent.
func (s *Service) ShopRedact(ctx context.Context, shopDomain string) error {
	_ = ctx
	shop, err := s.repos.Shop.GetByDomain(shopDomain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Still drop any orphaned sessions for the domain.
			return s.repos.Session.DeleteByShopDomain(shopDomain)
		}
		return err
	}

	if err := s.repos.DisputeResponse.DeleteByShop(shop.ID); err != nil {
		return fmt.Errorf("failed to delete responses: %w", err)
	}
	if err := s.repos.Dispute.DeleteByShop(shop.ID); err != nil {
		return fmt.Errorf("failed to delete disputes: %w", err)
	}
	if err := s.repos.Session.DeleteByShopDomain(shopDomain); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	if err := s.repos.Shop.Delete(shop.ID); err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	return nil
}
