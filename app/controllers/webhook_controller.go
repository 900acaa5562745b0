package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"

	"github.com/chargeward/chargeward/app/models"
	"github.com/chargeward/chargeward/app/repository"
	"github.com/chargeward/chargeward/internal/pkg/compliance"
	"github.com/chargeward/chargeward/internal/pkg/env"
	"github.com/chargeward/chargeward/internal/pkg/shopify"
	"github.com/gofiber/fiber/v2"
)

// webhookContext is one verified, recorded inbound webhook.
type webhookContext struct {
	Topic      string
	ShopDomain string
	Body       []byte
	Event      *models.WebhookEvent
	Duplicate  bool
}

// acceptWebhook verifies the HMAC over the raw body and records the event
// idempotently. A nil return means the error response was already sent.
func acceptWebhook(c *fiber.Ctx, topic string) *webhookContext {
	secret := strings.TrimSpace(env.GetEnv("SHOPIFY_API_SECRET", ""))
	if secret == "" {
		_ = c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "webhook_not_configured",
			"message": "webhook secret is not configured",
		})
		return nil
	}

	// Shopify computes the HMAC over the raw bytes.
	body := c.Body()
	header := c.Get("X-Shopify-Hmac-Sha256")
	if !shopify.VerifyWebhookHMAC(secret, body, header) {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "invalid_signature",
			"message": "webhook signature did not verify",
		})
		return nil
	}

	eventID := strings.TrimSpace(c.Get("X-Shopify-Webhook-Id"))
	if eventID == "" {
		sum := sha256.Sum256(body)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	shopDomain := shopify.NormalizeShopDomain(c.Get("X-Shopify-Shop-Domain"))

	event := &models.WebhookEvent{
		Topic:          topic,
		EventID:        eventID,
		ShopDomain:     shopDomain,
		PayloadJSON:    string(body),
		SignatureValid: true,
	}
	created, stored, err := repository.GetGlobalRepositories().WebhookEvent.CreateIfNotExists(event)
	if err != nil {
		log.Printf("failed to record webhook %s/%s: %v", topic, eventID, err)
		_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to record webhook",
		})
		return nil
	}

	return &webhookContext{
		Topic:      topic,
		ShopDomain: shopDomain,
		Body:       body,
		Event:      stored,
		Duplicate:  !created,
	}
}

func finishWebhook(c *fiber.Ctx, wc *webhookContext, processingErr error) error {
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
		log.Printf("webhook %s for %s failed: %v", wc.Topic, wc.ShopDomain, processingErr)
	}
	if err := repository.GetGlobalRepositories().WebhookEvent.MarkProcessed(wc.Event.ID, errMsg); err != nil {
		log.Printf("failed to mark webhook %d processed: %v", wc.Event.ID, err)
	}
	if processingErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "processing_failed",
			"message": errMsg,
		})
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleCustomersDataRequest handles the customers/data_request topic:
// collect what we hold so it can be handed to the merchant out of band.
func HandleCustomersDataRequest(c *fiber.Ctx) error {
	wc := acceptWebhook(c, "customers/data_request")
	if wc == nil {
		return nil
	}
	if wc.Duplicate {
		return c.SendStatus(fiber.StatusOK)
	}

	svc := compliance.NewService(repository.GetGlobalRepositories())
	bundle, err := svc.DataRequest(c.Context(), wc.ShopDomain)
	if err == nil {
		log.Printf("data request for %s: %d disputes, %d responses",
			wc.ShopDomain, len(bundle.Disputes), len(bundle.Responses))
	}
	return finishWebhook(c, wc, err)
}

type customerRedactPayload struct {
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// HandleCustomersRedact handles customers/redact: null the customer email on
// the shop's dispute rows.
func HandleCustomersRedact(c *fiber.Ctx) error {
	wc := acceptWebhook(c, "customers/redact")
	if wc == nil {
		return nil
	}
	if wc.Duplicate {
		return c.SendStatus(fiber.StatusOK)
	}

	var payload customerRedactPayload
	if err := json.Unmarshal(wc.Body, &payload); err != nil {
		return finishWebhook(c, wc, err)
	}

	svc := compliance.NewService(repository.GetGlobalRepositories())
	redacted, err := svc.CustomerRedact(c.Context(), wc.ShopDomain, payload.Customer.Email)
	if err == nil {
		log.Printf("customer redact for %s: %d rows", wc.ShopDomain, redacted)
	}
	return finishWebhook(c, wc, err)
}

// HandleShopRedact handles shop/redact: delete everything stored for the
// shop. Succeeds even when the shop is already gone.
func HandleShopRedact(c *fiber.Ctx) error {
	wc := acceptWebhook(c, "shop/redact")
	if wc == nil {
		return nil
	}
	if wc.Duplicate {
		return c.SendStatus(fiber.StatusOK)
	}

	svc := compliance.NewService(repository.GetGlobalRepositories())
	err := svc.ShopRedact(c.Context(), wc.ShopDomain)
	return finishWebhook(c, wc, err)
}

// HandleAppUninstalled flags the shop inactive and drops its sessions so a
// reinstall starts from OAuth. Data retention until shop/redact arrives.
func HandleAppUninstalled(c *fiber.Ctx) error {
	wc := acceptWebhook(c, "app/uninstalled")
	if wc == nil {
		return nil
	}
	if wc.Duplicate {
		return c.SendStatus(fiber.StatusOK)
	}

	repos := repository.GetGlobalRepositories()
	err := repos.Shop.Deactivate(wc.ShopDomain)
	if err == nil {
		err = repos.Session.DeleteByShopDomain(wc.ShopDomain)
	}
	return finishWebhook(c, wc, err)
}
