package router

import (
	"github.com/chargeward/chargeward/app/controllers"
	"github.com/chargeward/chargeward/internal/pkg/constants"
	"github.com/chargeward/chargeward/internal/pkg/middleware"
	"github.com/chargeward/chargeward/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply ShopContext middleware globally as first middleware
	app.Use(middleware.ShopContextMiddleware)

	app.Get(constants.RootRoute, controllers.HandleRoot)
	app.Get(constants.HealthRoute, controllers.HandleHealth)

	// OAuth install flow
	app.Get(constants.AuthRoute, controllers.HandleAuthStart)
	app.Get(constants.AuthCallback, controllers.HandleAuthCallback)

	// Billing pages; status is reachable without active billing so the gate
	// has somewhere to send merchants.
	billing := app.Group(constants.BillingRoute, middleware.RequireShop)
	billing.Get("/", controllers.HandleBillingStatus)
	billing.Post("/subscribe", controllers.HandleSubscribe)
	billing.Get("/confirm", controllers.HandleBillingConfirm)

	// Mandatory compliance webhooks (HMAC-verified, no shop context)
	app.Post(constants.WebhookDataRequest, controllers.HandleCustomersDataRequest)
	app.Post(constants.WebhookCustomerRedact, controllers.HandleCustomersRedact)
	app.Post(constants.WebhookShopRedact, controllers.HandleShopRedact)
	app.Post(constants.WebhookAppUninstalled, controllers.HandleAppUninstalled)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
