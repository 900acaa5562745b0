package controllers

import (
	"github.com/chargeward/chargeward/internal/pkg/constants"
	"github.com/chargeward/chargeward/internal/pkg/database"
	"github.com/chargeward/chargeward/internal/pkg/shopcontext"
	"github.com/gofiber/fiber/v2"
)

// HandleRoot sends an installed shop to its dispute list and everything else
// into the install flow.
func HandleRoot(c *fiber.Ctx) error {
	if shopcontext.IsAuthenticated(c) {
		return c.Redirect(constants.DisputesRoute+"?shop="+shopcontext.GetDomain(c), fiber.StatusSeeOther)
	}
	if domain := shopcontext.GetDomain(c); domain != "" {
		return c.Redirect(constants.AuthRoute+"?shop="+domain, fiber.StatusSeeOther)
	}
	return c.JSON(fiber.Map{
		"app":     "chargeward",
		"message": "install via /auth?shop=your-store.myshopify.com",
	})
}

// HandleHealth reports process and database health.
func HandleHealth(c *fiber.Ctx) error {
	status := "ok"
	db := database.GetDB()
	if db == nil {
		status = "degraded"
	} else if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
		status = "degraded"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{"status": status})
}
