package controllers

import (
	"net/url"

	"github.com/chargeward/chargeward/app/models"
	"github.com/chargeward/chargeward/internal/pkg/env"
	"github.com/chargeward/chargeward/internal/pkg/shopify"
	"github.com/gofiber/fiber/v2"
)

// queryValues converts fiber's query args into url.Values for HMAC checks.
func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}

// shopGraphQLClient builds an Admin GraphQL client from a shop's stored
// token. SHOPIFY_GRAPHQL_ENDPOINT overrides the admin URL in tests.
func shopGraphQLClient(shop *models.Shop) *shopify.Client {
	if endpoint := env.GetEnv("SHOPIFY_GRAPHQL_ENDPOINT", ""); endpoint != "" {
		return shopify.NewClientWithEndpoint(endpoint, shop.AccessToken)
	}
	return shopify.NewClient(shop.Domain, shop.AccessToken, env.GetEnv("SHOPIFY_API_VERSION", shopify.DefaultAPIVersion))
}
