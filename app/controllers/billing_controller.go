package controllers

import (
	"log"
	"strings"
	"time"

	"github.com/chargeward/chargeward/app/repository"
	"github.com/chargeward/chargeward/internal/pkg/billing"
	"github.com/chargeward/chargeward/internal/pkg/constants"
	"github.com/chargeward/chargeward/internal/pkg/env"
	"github.com/chargeward/chargeward/internal/pkg/shopcontext"
	"github.com/gofiber/fiber/v2"
)

// HandleBillingStatus returns the plan catalog and the shop's current
// billing state, refreshing it from Shopify first.
func HandleBillingStatus(c *fiber.Ctx) error {
	shopCtx := shopcontext.GetShopContext(c)
	repos := repository.GetGlobalRepositories()

	shop, err := repos.Shop.GetByID(shopCtx.ShopID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "shop not found",
		})
	}

	svc := billing.NewService(repos.Shop)
	if _, err := svc.CheckSubscriptionStatus(c.Context(), shopGraphQLClient(shop), shop); err != nil {
		// The page still renders with the last persisted billing state.
		log.Printf("billing status check failed for %s: %v", shop.Domain, err)
	}

	now := time.Now()
	return c.JSON(fiber.Map{
		"plans":                billing.Plans,
		"plan_name":            shop.PlanName,
		"on_trial":             billing.IsOnTrial(shop, now),
		"trial_ends_at":        shop.TrialEndsAt,
		"billing_active":       shop.BillingActive,
		"has_active":           billing.HasActiveBilling(shop, now),
		"subscription_ends_at": shop.SubscriptionEndsAt,
	})
}

type subscribeRequest struct {
	Plan string `json:"plan"`
}

// HandleSubscribe creates a recurring charge for the chosen plan and returns
// the confirmation URL the merchant must approve.
func HandleSubscribe(c *fiber.Ctx) error {
	shopCtx := shopcontext.GetShopContext(c)
	repos := repository.GetGlobalRepositories()

	shop, err := repos.Shop.GetByID(shopCtx.ShopID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "shop not found",
		})
	}

	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Plan) == "" {
		req.Plan = c.Query("plan")
	}

	base := strings.TrimRight(env.GetEnv("APP_URL", ""), "/")
	returnURL := base + constants.BillingRoute + "/confirm?shop=" + shop.Domain

	svc := billing.NewService(repos.Shop)
	confirmationURL, err := svc.CreateSubscription(c.Context(), shopGraphQLClient(shop), shop, req.Plan, returnURL)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "subscription_failed",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"confirmation_url": confirmationURL,
	})
}

// HandleBillingConfirm is the return URL after the merchant approves the
// charge: re-check the subscription with Shopify and head back to disputes.
func HandleBillingConfirm(c *fiber.Ctx) error {
	shopCtx := shopcontext.GetShopContext(c)
	repos := repository.GetGlobalRepositories()

	shop, err := repos.Shop.GetByID(shopCtx.ShopID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "shop not found",
		})
	}

	svc := billing.NewService(repos.Shop)
	if _, err := svc.CheckSubscriptionStatus(c.Context(), shopGraphQLClient(shop), shop); err != nil {
		log.Printf("billing confirm check failed for %s: %v", shop.Domain, err)
	}

	return c.Redirect(constants.DisputesRoute+"?shop="+shop.Domain, fiber.StatusSeeOther)
}
