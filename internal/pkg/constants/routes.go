package constants

// Static route constants
const (
	RootRoute     = "/"
	HealthRoute   = "/health"
	AuthRoute     = "/auth"
	AuthCallback  = "/auth/callback"
	DisputesRoute = "/api/v1/disputes"
	BillingRoute  = "/billing"

	WebhookDataRequest    = "/webhooks/customers/data-request"
	WebhookCustomerRedact = "/webhooks/customers/redact"
	WebhookShopRedact     = "/webhooks/shop/redact"
	WebhookAppUninstalled = "/webhooks/app/uninstalled"
)
