package middleware

import (
	"strings"

	"github.com/chargeward/chargeward/app/repository"
	"github.com/chargeward/chargeward/internal/pkg/shopcontext"
	"github.com/chargeward/chargeward/internal/pkg/shopify"
	"github.com/gofiber/fiber/v2"
)

// ShopContextMiddleware resolves the requesting shop for every request and
// sets the shop context locals. The shop domain arrives as the ?shop= query
// parameter (embedded app) or the X-Shop-Domain header (API calls). Unknown
// or inactive shops yield an unauthenticated context; route guards decide
// what to do with that.
func ShopContextMiddleware(c *fiber.Ctx) error {
	// OAuth routes manage their own shop resolution.
	if strings.HasPrefix(c.Path(), "/auth") || strings.HasPrefix(c.Path(), "/webhooks/") {
		return c.Next()
	}

	domain := strings.TrimSpace(c.Query("shop"))
	if domain == "" {
		domain = strings.TrimSpace(c.Get("X-Shop-Domain"))
	}
	domain = shopify.NormalizeShopDomain(domain)

	if domain == "" || !shopify.IsValidShopDomain(domain) {
		c.Locals(shopcontext.ContextKey, shopcontext.ShopContext{IsAuthenticated: false})
		return c.Next()
	}

	shop, err := repository.GetGlobalFactory().GetShopRepository().GetByDomain(domain)
	if err != nil || !shop.IsActive || shop.AccessToken == "" {
		c.Locals(shopcontext.ContextKey, shopcontext.ShopContext{
			Domain:          domain,
			IsAuthenticated: false,
		})
		return c.Next()
	}

	c.Locals(shopcontext.ContextKey, shopcontext.ShopContext{
		ShopID:          shop.ID,
		Domain:          shop.Domain,
		IsAuthenticated: true,
		BillingActive:   shop.BillingActive,
		PlanName:        shop.PlanName,
	})
	return c.Next()
}
