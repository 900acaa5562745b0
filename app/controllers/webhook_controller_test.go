package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargeward/chargeward/app/models"
	"github.com/chargeward/chargeward/internal/pkg/constants"
)

const webhookTestSecret = "shpss_webhook_secret"

func newWebhookApp() *fiber.App {
	app := fiber.New()
	app.Post(constants.WebhookDataRequest, HandleCustomersDataRequest)
	app.Post(constants.WebhookCustomerRedact, HandleCustomersRedact)
	app.Post(constants.WebhookShopRedact, HandleShopRedact)
	app.Post(constants.WebhookAppUninstalled, HandleAppUninstalled)
	return app
}

func signedWebhookRequest(path, body, eventID string) *http.Request {
	mac := hmac.New(sha256.New, []byte(webhookTestSecret))
	mac.Write([]byte(body))

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Hmac-Sha256", base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	req.Header.Set("X-Shopify-Shop-Domain", "demo.myshopify.com")
	if eventID != "" {
		req.Header.Set("X-Shopify-Webhook-Id", eventID)
	}
	return req
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	repos := installTestRepos(t)
	setTestEnv(t, map[string]string{"SHOPIFY_API_SECRET": webhookTestSecret})

	app := newWebhookApp()
	req := httptest.NewRequest(http.MethodPost, constants.WebhookShopRedact,
		strings.NewReader(`{"shop_domain":"demo.myshopify.com"}`))
	req.Header.Set("X-Shopify-Hmac-Sha256", "bm90LXRoZS1yZWFsLXNpZ25hdHVyZQ==")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, repos.webhookEvent.events, "rejected webhooks must not be recorded")
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	installTestRepos(t)
	setTestEnv(t, map[string]string{"SHOPIFY_API_SECRET": webhookTestSecret})

	app := newWebhookApp()
	req := httptest.NewRequest(http.MethodPost, constants.WebhookShopRedact,
		strings.NewReader(`{}`))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestWebhookUnavailableWithoutSecret(t *testing.T) {
	installTestRepos(t)
	setTestEnv(t, map[string]string{})

	app := newWebhookApp()
	resp, err := app.Test(signedWebhookRequest(constants.WebhookShopRedact, `{}`, "evt-1"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebhookAppUninstalled(t *testing.T) {
	repos := installTestRepos(t)
	setTestEnv(t, map[string]string{"SHOPIFY_API_SECRET": webhookTestSecret})

	app := newWebhookApp()
	body := `{"shop_domain":"demo.myshopify.com"}`
	resp, err := app.Test(signedWebhookRequest(constants.WebhookAppUninstalled, body, "evt-1"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, []string{"demo.myshopify.com"}, repos.shop.deactivated)
	assert.Equal(t, []string{"demo.myshopify.com"}, repos.session.deleted)

	stored, ok := repos.webhookEvent.events["app/uninstalled|evt-1"]
	require.True(t, ok, "the event must be recorded")
	assert.True(t, stored.SignatureValid)
	errMsg, processed := repos.webhookEvent.processed[stored.ID]
	assert.True(t, processed)
	assert.Empty(t, errMsg)
}

func TestWebhookDuplicateDeliveryShortCircuits(t *testing.T) {
	repos := installTestRepos(t)
	setTestEnv(t, map[string]string{"SHOPIFY_API_SECRET": webhookTestSecret})

	app := newWebhookApp()
	body := `{"shop_domain":"demo.myshopify.com"}`

	resp, err := app.Test(signedWebhookRequest(constants.WebhookAppUninstalled, body, "evt-dup"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(signedWebhookRequest(constants.WebhookAppUninstalled, body, "evt-dup"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Len(t, repos.shop.deactivated, 1, "a redelivered event must not be processed again")
	assert.Len(t, repos.webhookEvent.events, 1)
}

func TestWebhookCustomerRedact(t *testing.T) {
	repos := installTestRepos(t)
	repos.shop.shops[1] = &models.Shop{ID: 1, Domain: "demo.myshopify.com", IsActive: true}
	setTestEnv(t, map[string]string{"SHOPIFY_API_SECRET": webhookTestSecret})

	app := newWebhookApp()
	body := `{"shop_domain":"demo.myshopify.com","customer":{"email":"buyer@example.com"}}`
	resp, err := app.Test(signedWebhookRequest(constants.WebhookCustomerRedact, body, "evt-redact"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, []string{"buyer@example.com"}, repos.dispute.redacted)
}
