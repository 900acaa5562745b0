package shopify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/chargeward/chargeward/internal/pkg/env"
)

// OAuthClient drives the Shopify app install flow: authorize redirect, HMAC
// verification of the callback, and the code-for-token exchange.
type OAuthClient struct {
	APIKey      string
	APISecret   string
	Scopes      string
	RedirectURI string

	HTTPClient *http.Client
}

// AccessTokenResponse is Shopify's answer to the token exchange.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// NewOAuthClientFromEnv builds the OAuth client from app credentials.
func NewOAuthClientFromEnv() *OAuthClient {
	base := strings.TrimRight(env.GetEnv("APP_URL", ""), "/")
	redirectURI := strings.TrimSpace(env.GetEnv("SHOPIFY_REDIRECT_URI", ""))
	if redirectURI == "" && base != "" {
		redirectURI = base + "/auth/callback"
	}

	return &OAuthClient{
		APIKey:      strings.TrimSpace(env.GetEnv("SHOPIFY_API_KEY", "")),
		APISecret:   strings.TrimSpace(env.GetEnv("SHOPIFY_API_SECRET", "")),
		Scopes:      strings.TrimSpace(env.GetEnv("SHOPIFY_SCOPES", "read_orders,read_shopify_payments_disputes")),
		RedirectURI: redirectURI,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// AuthorizeURL returns the merchant-facing install URL for a shop.
func (c *OAuthClient) AuthorizeURL(shopDomain, state string) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", errors.New("SHOPIFY_API_KEY is not configured")
	}
	if strings.TrimSpace(c.RedirectURI) == "" {
		return "", errors.New("SHOPIFY_REDIRECT_URI is not configured")
	}
	domain := NormalizeShopDomain(shopDomain)
	if domain == "" {
		return "", errors.New("shop domain is required")
	}

	q := url.Values{}
	q.Set("client_id", c.APIKey)
	q.Set("scope", c.Scopes)
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("state", state)
	return fmt.Sprintf("https://%s/admin/oauth/authorize?%s", domain, q.Encode()), nil
}

// VerifyCallbackHMAC checks the hex HMAC Shopify appends to OAuth callback
// query parameters. The hmac parameter itself is excluded from the message.
func (c *OAuthClient) VerifyCallbackHMAC(query url.Values) bool {
	sig := strings.TrimSpace(query.Get("hmac"))
	if sig == "" || strings.TrimSpace(c.APISecret) == "" {
		return false
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+query.Get(k))
	}
	message := strings.Join(pairs, "&")

	mac := hmac.New(sha256.New, []byte(c.APISecret))
	mac.Write([]byte(message))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(sig)))
}

// ExchangeCode trades the OAuth code for a permanent access token.
func (c *OAuthClient) ExchangeCode(ctx context.Context, shopDomain, code string) (*AccessTokenResponse, error) {
	if strings.TrimSpace(c.APIKey) == "" || strings.TrimSpace(c.APISecret) == "" {
		return nil, errors.New("SHOPIFY_API_KEY/SHOPIFY_API_SECRET are not configured")
	}
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("oauth code is required")
	}
	domain := NormalizeShopDomain(shopDomain)
	if domain == "" {
		return nil, errors.New("shop domain is required")
	}

	payload, _ := json.Marshal(map[string]string{
		"client_id":     c.APIKey,
		"client_secret": c.APISecret,
		"code":          strings.TrimSpace(code),
	})

	tokenURL := fmt.Sprintf("https://%s/admin/oauth/access_token", domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("shopify token exchange failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out AccessTokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, errors.New("shopify token exchange returned no access token")
	}
	return &out, nil
}

// NormalizeShopDomain strips scheme and trailing slash from a shop domain.
func NormalizeShopDomain(domain string) string {
	domain = strings.TrimSpace(strings.ToLower(domain))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimSuffix(domain, "/")
}

// IsValidShopDomain accepts only *.myshopify.com hosts.
func IsValidShopDomain(domain string) bool {
	domain = NormalizeShopDomain(domain)
	if !strings.HasSuffix(domain, ".myshopify.com") {
		return false
	}
	name := strings.TrimSuffix(domain, ".myshopify.com")
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
