package router

import (
	"github.com/chargeward/chargeward/app/controllers"
	"github.com/chargeward/chargeward/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApiRouter struct {
}

func (a ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api/v1", middleware.RequireAPIShopAuth)

	// Dispute list runs a sync pass and sits behind the billing gate.
	api.Get("/disputes", middleware.RequireActiveBilling, controllers.HandleDisputeList)
	api.Get("/disputes/:id", middleware.RequireActiveBilling, controllers.HandleDisputeShow)

	api.Post("/disputes/:id/responses/generate", middleware.RequireActiveBilling, controllers.HandleGenerateResponse)
	api.Post("/disputes/:id/responses", middleware.RequireActiveBilling, controllers.HandleSaveResponse)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
