package shopcontext

import "github.com/gofiber/fiber/v2"

// ContextKey is the fiber locals key holding the shop context.
const ContextKey = "SHOP_CONTEXT"

// ShopContext represents the authenticated shop for a request
type ShopContext struct {
	ShopID          uint   `json:"shop_id"`
	Domain          string `json:"domain"`
	IsAuthenticated bool   `json:"is_authenticated"`
	BillingActive   bool   `json:"billing_active"`
	PlanName        string `json:"plan_name"`
}

// GetShopContext retrieves the shop context from fiber context.
// Returns an unauthenticated context if none is set.
func GetShopContext(c *fiber.Ctx) ShopContext {
	if ctx := c.Locals(ContextKey); ctx != nil {
		return ctx.(ShopContext)
	}
	return ShopContext{IsAuthenticated: false}
}

// IsAuthenticated checks if the current request carries a known shop
func IsAuthenticated(c *fiber.Ctx) bool {
	return GetShopContext(c).IsAuthenticated
}

// GetShopID returns the current shop's ID, or 0 if not authenticated
func GetShopID(c *fiber.Ctx) uint {
	return GetShopContext(c).ShopID
}

// GetDomain returns the current shop's domain, or empty string
func GetDomain(c *fiber.Ctx) string {
	return GetShopContext(c).Domain
}
