package shopify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signCallback(secret string, query url.Values) string {
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

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCallbackHMAC(t *testing.T) {
	c := &OAuthClient{APISecret: "hush"}

	query := url.Values{}
	query.Set("shop", "demo.myshopify.com")
	query.Set("code", "abc123")
	query.Set("state", "nonce")
	query.Set("timestamp", "1756000000")
	query.Set("hmac", signCallback("hush", query))

	assert.True(t, c.VerifyCallbackHMAC(query))
}

func TestVerifyCallbackHMACRejectsTamperedQuery(t *testing.T) {
	c := &OAuthClient{APISecret: "hush"}

	query := url.Values{}
	query.Set("shop", "demo.myshopify.com")
	query.Set("code", "abc123")
	query.Set("hmac", signCallback("hush", query))

	query.Set("shop", "evil.myshopify.com")
	assert.False(t, c.VerifyCallbackHMAC(query))
}

func TestVerifyCallbackHMACMissingPieces(t *testing.T) {
	c := &OAuthClient{APISecret: "hush"}

	assert.False(t, c.VerifyCallbackHMAC(url.Values{}))

	query := url.Values{}
	query.Set("shop", "demo.myshopify.com")
	query.Set("hmac", signCallback("hush", query))
	empty := &OAuthClient{}
	assert.False(t, empty.VerifyCallbackHMAC(query))
}

func TestAuthorizeURL(t *testing.T) {
	c := &OAuthClient{
		APIKey:      "key123",
		Scopes:      "read_orders",
		RedirectURI: "https://app.example.com/auth/callback",
	}

	raw, err := c.AuthorizeURL("https://demo.myshopify.com/", "state-nonce")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "demo.myshopify.com", u.Host)
	assert.Equal(t, "/admin/oauth/authorize", u.Path)
	assert.Equal(t, "key123", u.Query().Get("client_id"))
	assert.Equal(t, "read_orders", u.Query().Get("scope"))
	assert.Equal(t, "state-nonce", u.Query().Get("state"))
}

func TestAuthorizeURLRequiresConfig(t *testing.T) {
	_, err := (&OAuthClient{}).AuthorizeURL("demo.myshopify.com", "s")
	assert.Error(t, err)

	_, err = (&OAuthClient{APIKey: "k", RedirectURI: "https://x/cb"}).AuthorizeURL("", "s")
	assert.Error(t, err)
}

func TestExchangeCodeValidation(t *testing.T) {
	c := &OAuthClient{APIKey: "k", APISecret: "s", HTTPClient: http.DefaultClient}

	_, err := c.ExchangeCode(context.Background(), "demo.myshopify.com", "")
	assert.Error(t, err)

	_, err = (&OAuthClient{HTTPClient: http.DefaultClient}).ExchangeCode(context.Background(), "demo.myshopify.com", "code")
	assert.Error(t, err)
}

func TestExchangeCodeTransportFailure(t *testing.T) {
	c := &OAuthClient{APIKey: "k", APISecret: "s", HTTPClient: &http.Client{Timeout: time.Second}}

	_, err := c.ExchangeCode(context.Background(), "127.0.0.1:1", "code")
	assert.Error(t, err)
}

func TestNormalizeShopDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://demo.myshopify.com/", "demo.myshopify.com"},
		{"http://Demo.MyShopify.com", "demo.myshopify.com"},
		{"  demo.myshopify.com  ", "demo.myshopify.com"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeShopDomain(tt.in))
	}
}

func TestIsValidShopDomain(t *testing.T) {
	assert.True(t, IsValidShopDomain("demo.myshopify.com"))
	assert.True(t, IsValidShopDomain("https://my-shop-01.myshopify.com/"))
	assert.False(t, IsValidShopDomain(".myshopify.com"))
	assert.False(t, IsValidShopDomain("demo.example.com"))
	assert.False(t, IsValidShopDomain("bad_chars!.myshopify.com"))
	assert.False(t, IsValidShopDomain(""))
}
