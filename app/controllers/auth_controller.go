package controllers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/chargeward/chargeward/app/models"
	"github.com/chargeward/chargeward/app/repository"
	"github.com/chargeward/chargeward/internal/pkg/billing"
	"github.com/chargeward/chargeward/internal/pkg/constants"
	"github.com/chargeward/chargeward/internal/pkg/session"
	"github.com/chargeward/chargeward/internal/pkg/shopify"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const oauthStateSessionKey = "shopify_oauth_state"

// HandleAuthStart begins the OAuth install flow for a shop.
func HandleAuthStart(c *fiber.Ctx) error {
	shopDomain := shopify.NormalizeShopDomain(c.Query("shop"))
	if !shopify.IsValidShopDomain(shopDomain) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_shop",
			"message": "a valid *.myshopify.com shop parameter is required",
		})
	}

	state, err := generateOAuthState(24)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to create OAuth state",
		})
	}

	if err := session.SetSessionValue(c, oauthStateSessionKey, state); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to save session",
		})
	}

	client := shopify.NewOAuthClientFromEnv()
	url, err := client.AuthorizeURL(shopDomain, state)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "oauth_not_configured",
			"message": err.Error(),
		})
	}

	return c.Redirect(url, fiber.StatusSeeOther)
}

// HandleAuthCallback finishes the install: verifies state and HMAC, trades
// the code for a token, and upserts the shop and its offline session. First
// installs start the trial window; reinstalls keep their billing history.
func HandleAuthCallback(c *fiber.Ctx) error {
	shopDomain := shopify.NormalizeShopDomain(c.Query("shop"))
	if !shopify.IsValidShopDomain(shopDomain) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_shop",
			"message": "a valid *.myshopify.com shop parameter is required",
		})
	}

	expectedState := session.GetSessionValue(c, oauthStateSessionKey)
	gotState := strings.TrimSpace(c.Query("state"))
	_ = session.DeleteSessionValue(c, oauthStateSessionKey)
	if expectedState == "" || gotState == "" || expectedState != gotState {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "state_mismatch",
			"message": "OAuth state did not match",
		})
	}

	client := shopify.NewOAuthClientFromEnv()
	if !client.VerifyCallbackHMAC(queryValues(c)) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "invalid_hmac",
			"message": "OAuth callback signature did not verify",
		})
	}

	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "missing_code",
			"message": "OAuth code is missing",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	token, err := client.ExchangeCode(ctx, shopDomain, code)
	if err != nil {
		log.Printf("token exchange failed for %s: %v", shopDomain, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "token_exchange_failed",
			"message": "could not exchange the OAuth code with Shopify",
		})
	}

	repos := repository.GetGlobalRepositories()

	_, lookupErr := repos.Shop.GetByDomain(shopDomain)
	firstInstall := errors.Is(lookupErr, gorm.ErrRecordNotFound)

	shop := &models.Shop{
		Domain:      shopDomain,
		AccessToken: token.AccessToken,
		Scope:       token.Scope,
		IsActive:    true,
	}
	if firstInstall {
		shop.StartTrial(billing.TrialDays)
		shop.PlanName = models.PlanTrial
	}
	if err := repos.Shop.Upsert(shop); err != nil {
		log.Printf("shop upsert failed for %s: %v", shopDomain, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "failed to persist shop",
		})
	}

	offline := &models.Session{
		ID:          uuid.NewString(),
		ShopDomain:  shopDomain,
		AccessToken: token.AccessToken,
		Scope:       token.Scope,
		IsOnline:    false,
	}
	if err := repos.Session.Upsert(offline); err != nil {
		log.Printf("session upsert failed for %s: %v", shopDomain, err)
	}

	return c.Redirect(constants.DisputesRoute+"?shop="+shopDomain, fiber.StatusSeeOther)
}

func generateOAuthState(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
