package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chargeward/chargeward/app/models"
	"github.com/chargeward/chargeward/app/repository"
	"github.com/chargeward/chargeward/internal/pkg/cache"
	"github.com/chargeward/chargeward/internal/pkg/disputesync"
	"github.com/chargeward/chargeward/internal/pkg/shopify"
)

// statusCacheTTL bounds how often we re-ask Shopify for subscription state.
const statusCacheTTL = 5 * time.Minute

// Plan is one purchasable subscription tier.
type Plan struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Interval string  `json:"interval"`
}

// Plans is the fixed plan catalog offered on the billing page.
var Plans = []Plan{
	{Name: models.PlanStarter, Price: 9.99, Currency: "USD", Interval: "EVERY_30_DAYS"},
	{Name: models.PlanPro, Price: 29.99, Currency: "USD", Interval: "EVERY_30_DAYS"},
}

// Service checks and mutates a shop's subscription state against Shopify.
type Service struct {
	shops repository.ShopRepository
}

// NewService creates a billing service from an injected shop repository.
func NewService(shops repository.ShopRepository) *Service {
	return &Service{shops: shops}
}

type activeSubscription struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Status           string `json:"status"`
	CreatedAt        string `json:"createdAt"`
	CurrentPeriodEnd string `json:"currentPeriodEnd"`
	Test             bool   `json:"test"`
}

// CheckSubscriptionStatus asks Shopify for the installation's active
// subscriptions and writes the result onto the shop row. There is no
// fallback on this path; upstream failures propagate. Results are cached
// briefly so the gate does not hit Shopify on every request.
func (s *Service) CheckSubscriptionStatus(ctx context.Context, gql disputesync.GraphQLExecutor, shop *models.Shop) (bool, error) {
	cacheKey := fmt.Sprintf("billing:active:%s", shop.Domain)
	if cached, err := cache.Get(cacheKey); err == nil {
		return cached == "1", nil
	}

	resp, err := gql.Execute(ctx, shopify.ActiveSubscriptionsQuery, nil)
	if err != nil {
		return false, fmt.Errorf("billing status query failed: %w", err)
	}
	if resp.HasErrors() {
		return false, fmt.Errorf("billing status query returned errors: %s", resp.ErrorMessages())
	}

	var payload struct {
		CurrentAppInstallation struct {
			ActiveSubscriptions []activeSubscription `json:"activeSubscriptions"`
		} `json:"currentAppInstallation"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return false, fmt.Errorf("failed to decode billing status: %w", err)
	}

	now := time.Now()
	shop.BillingActive = false
	for _, sub := range payload.CurrentAppInstallation.ActiveSubscriptions {
		if !strings.EqualFold(sub.Status, "ACTIVE") {
			continue
		}
		shop.BillingActive = true
		shop.PlanName = strings.ToLower(sub.Name)
		if t := parseTimestamp(sub.CreatedAt); t != nil {
			shop.SubscriptionStartsAt = t
		}
		shop.SubscriptionEndsAt = parseTimestamp(sub.CurrentPeriodEnd)
		break
	}
	shop.BillingCheckedAt = &now

	if err := s.shops.Update(shop); err != nil {
		return shop.BillingActive, err
	}

	val := "0"
	if shop.BillingActive {
		val = "1"
	}
	_ = cache.Set(cacheKey, val, statusCacheTTL)

	return shop.BillingActive, nil
}

// CreateSubscription creates a recurring application charge and returns the
// merchant-facing confirmation URL.
func (s *Service) CreateSubscription(ctx context.Context, gql disputesync.GraphQLExecutor, shop *models.Shop, planName, returnURL string) (string, error) {
	plan, err := findPlan(planName)
	if err != nil {
		return "", err
	}

	variables := map[string]interface{}{
		"name":      plan.Name,
		"returnUrl": returnURL,
		"test":      false,
		"lineItems": []map[string]interface{}{
			{
				"plan": map[string]interface{}{
					"appRecurringPricingDetails": map[string]interface{}{
						"price": map[string]interface{}{
							"amount":       plan.Price,
							"currencyCode": plan.Currency,
						},
						"interval": plan.Interval,
					},
				},
			},
		},
	}

	resp, err := gql.Execute(ctx, shopify.AppSubscriptionCreateMutation, variables)
	if err != nil {
		return "", fmt.Errorf("subscription create failed: %w", err)
	}
	if resp.HasErrors() {
		return "", fmt.Errorf("subscription create returned errors: %s", resp.ErrorMessages())
	}

	var payload struct {
		AppSubscriptionCreate struct {
			ConfirmationURL string `json:"confirmationUrl"`
			UserErrors      []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"appSubscriptionCreate"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return "", fmt.Errorf("failed to decode subscription create: %w", err)
	}
	if len(payload.AppSubscriptionCreate.UserErrors) > 0 {
		return "", fmt.Errorf("subscription create rejected: %s", payload.AppSubscriptionCreate.UserErrors[0].Message)
	}
	if payload.AppSubscriptionCreate.ConfirmationURL == "" {
		return "", errors.New("subscription create returned no confirmation URL")
	}

	// Invalidate the cached status; the merchant is about to change it.
	_ = cache.Delete(fmt.Sprintf("billing:active:%s", shop.Domain))

	return payload.AppSubscriptionCreate.ConfirmationURL, nil
}

func findPlan(name string) (*Plan, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range Plans {
		if Plans[i].Name == name {
			return &Plans[i], nil
		}
	}
	return nil, fmt.Errorf("unknown plan %q", name)
}

func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
