package middleware

import (
	"time"

	"github.com/chargeward/chargeward/app/repository"
	"github.com/chargeward/chargeward/internal/pkg/billing"
	"github.com/chargeward/chargeward/internal/pkg/constants"
	"github.com/chargeward/chargeward/internal/pkg/shopcontext"
	"github.com/gofiber/fiber/v2"
)

// RequireShop ensures the request carries a known, installed shop; redirects
// into the install flow otherwise.
func RequireShop(c *fiber.Ctx) error {
	ctx := shopcontext.GetShopContext(c)
	if !ctx.IsAuthenticated {
		target := constants.AuthRoute
		if ctx.Domain != "" {
			target += "?shop=" + ctx.Domain
		}
		return c.Redirect(target, fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPIShopAuth ensures a known shop for API routes and returns JSON 401
// instead of a redirect.
func RequireAPIShopAuth(c *fiber.Ctx) error {
	if !shopcontext.IsAuthenticated(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "unknown or uninstalled shop",
		})
	}
	return c.Next()
}

// RequireActiveBilling gates paid features behind the trial/subscription
// window. Shops outside the window are redirected to the billing page, never
// errored.
func RequireActiveBilling(c *fiber.Ctx) error {
	ctx := shopcontext.GetShopContext(c)
	if !ctx.IsAuthenticated {
		return c.Redirect(constants.AuthRoute, fiber.StatusSeeOther)
	}

	shop, err := repository.GetGlobalFactory().GetShopRepository().GetByID(ctx.ShopID)
	if err != nil {
		return c.Redirect(constants.BillingRoute+"?shop="+ctx.Domain, fiber.StatusSeeOther)
	}

	if !billing.HasActiveBilling(shop, time.Now()) {
		return c.Redirect(constants.BillingRoute+"?shop="+ctx.Domain, fiber.StatusSeeOther)
	}
	return c.Next()
}
