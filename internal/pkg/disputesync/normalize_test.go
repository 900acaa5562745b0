package disputesync

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargeward/chargeward/app/models"
)

func TestNormalizeDisputeFullNode(t *testing.T) {
	raw := json.RawMessage(`{"id":"gid://shopify/ShopifyPaymentsDispute/123"}`)
	edge := DisputeEdge{
		Node: disputeNode{
			ID:     "gid://shopify/ShopifyPaymentsDispute/123",
			Type:   "CHARGEBACK",
			Status: "UNDER_REVIEW",
			ReasonDetails: &reasonRef{
				Reason: "fraudulent",
			},
			Amount:         &moneyRef{Amount: "49.99", CurrencyCode: "USD"},
			EvidenceDueBy:  "2026-09-01T00:00:00Z",
			EvidenceSentOn: "2026-08-20T10:00:00Z",
			Order: &orderNode{
				ID:       "gid://shopify/Order/456",
				Name:     "#1001",
				Customer: &customerRef{Email: "buyer@example.com"},
			},
		},
		Raw: raw,
	}

	d := normalizeDispute(edge)

	assert.Equal(t, "123", d.RemoteID)
	require.NotNil(t, d.OrderID)
	assert.Equal(t, "456", *d.OrderID)
	require.NotNil(t, d.OrderName)
	assert.Equal(t, "#1001", *d.OrderName)
	require.NotNil(t, d.CustomerEmail)
	assert.Equal(t, "buyer@example.com", *d.CustomerEmail)
	require.NotNil(t, d.Status)
	assert.Equal(t, "under_review", *d.Status)
	require.NotNil(t, d.Reason)
	assert.Equal(t, "fraudulent", *d.Reason)
	require.NotNil(t, d.Amount)
	assert.Equal(t, 49.99, *d.Amount)
	require.NotNil(t, d.CurrencyCode)
	assert.Equal(t, "USD", *d.CurrencyCode)
	require.NotNil(t, d.EvidenceDueBy)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), d.EvidenceDueBy.UTC())
	assert.True(t, d.EvidenceSubmitted)
	assert.Equal(t, string(raw), d.RawPayloadJSON)
	assert.False(t, d.IsChargeback())
}

func TestNormalizeDisputeSparseNode(t *testing.T) {
	edge := DisputeEdge{
		Node: disputeNode{ID: "gid://shopify/ShopifyPaymentsDispute/789"},
		Raw:  json.RawMessage(`{"id":"gid://shopify/ShopifyPaymentsDispute/789"}`),
	}

	d := normalizeDispute(edge)

	assert.Equal(t, "789", d.RemoteID)
	assert.Nil(t, d.OrderID)
	assert.Nil(t, d.OrderName)
	assert.Nil(t, d.CustomerEmail)
	assert.Nil(t, d.Status)
	assert.Nil(t, d.Reason)
	assert.Nil(t, d.ChargebackType)
	assert.Nil(t, d.Amount)
	assert.Nil(t, d.CurrencyCode)
	assert.Nil(t, d.EvidenceDueBy)
	assert.False(t, d.EvidenceSubmitted)
}

func TestNormalizeDisputeMissingIDGetsFallback(t *testing.T) {
	d := normalizeDispute(DisputeEdge{Node: disputeNode{}})

	assert.NotEmpty(t, d.RemoteID)
	assert.Regexp(t, `^dispute-\d+$`, d.RemoteID)
}

func TestNormalizeDisputeBadInputsMapToNil(t *testing.T) {
	edge := DisputeEdge{
		Node: disputeNode{
			ID:            "gid://shopify/ShopifyPaymentsDispute/1",
			Amount:        &moneyRef{Amount: "not-a-number", CurrencyCode: "EUR"},
			EvidenceDueBy: "yesterday",
		},
	}

	d := normalizeDispute(edge)

	assert.Nil(t, d.Amount)
	require.NotNil(t, d.CurrencyCode)
	assert.Equal(t, "EUR", *d.CurrencyCode)
	assert.Nil(t, d.EvidenceDueBy)
}

func TestNormalizeChargeback(t *testing.T) {
	edge := ChargebackEdge{
		Transaction: transactionNode{
			ID:     "gid://shopify/OrderTransaction/555",
			Kind:   "chargeback",
			Status: "SUCCESS",
			AmountSet: &struct {
				ShopMoney *moneyRef `json:"shopMoney"`
			}{ShopMoney: &moneyRef{Amount: "12.50", CurrencyCode: "USD"}},
		},
		Order: orderNode{
			ID:    "gid://shopify/Order/900",
			Name:  "#2002",
			Email: "fallback@example.com",
		},
	}

	d := normalizeChargeback(edge)

	assert.Equal(t, "chargeback-555", d.RemoteID)
	assert.True(t, d.IsChargeback())
	require.NotNil(t, d.OrderID)
	assert.Equal(t, "900", *d.OrderID)
	require.NotNil(t, d.CustomerEmail)
	assert.Equal(t, "fallback@example.com", *d.CustomerEmail)
	require.NotNil(t, d.Status)
	assert.Equal(t, "success", *d.Status)
	require.NotNil(t, d.ChargebackType)
	assert.Equal(t, "CHARGEBACK", *d.ChargebackType)
	require.NotNil(t, d.Amount)
	assert.Equal(t, 12.50, *d.Amount)
	assert.Nil(t, d.EvidenceDueBy)
	assert.Contains(t, d.RawPayloadJSON, `"transaction"`)
	assert.Contains(t, d.RawPayloadJSON, `"order"`)
}

func TestNormalizeChargebackStatusDefaultsToOpen(t *testing.T) {
	edge := ChargebackEdge{
		Transaction: transactionNode{ID: "gid://shopify/OrderTransaction/556", Kind: "CHARGEBACK"},
	}

	d := normalizeChargeback(edge)

	require.NotNil(t, d.Status)
	assert.Equal(t, "open", *d.Status)
}

func TestChargebackIDsNeverCollideWithDisputeIDs(t *testing.T) {
	dispute := normalizeDispute(DisputeEdge{
		Node: disputeNode{ID: "gid://shopify/ShopifyPaymentsDispute/42"},
	})
	chargeback := normalizeChargeback(ChargebackEdge{
		Transaction: transactionNode{ID: "gid://shopify/OrderTransaction/42", Kind: "CHARGEBACK"},
	})

	assert.Equal(t, "42", dispute.RemoteID)
	assert.Equal(t, models.ChargebackIDPrefix+"42", chargeback.RemoteID)
	assert.NotEqual(t, dispute.RemoteID, chargeback.RemoteID)
}

func TestRemoteIDFromGID(t *testing.T) {
	tests := []struct {
		gid  string
		want string
	}{
		{"gid://shopify/ShopifyPaymentsDispute/123", "123"},
		{"plain-id", "plain-id"},
		{"", ""},
		{"  ", ""},
		{"a/b/c", "c"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, remoteIDFromGID(tt.gid), "gid %q", tt.gid)
	}
}

func TestParseMoney(t *testing.T) {
	amount, currency := parseMoney(&moneyRef{Amount: "49.99", CurrencyCode: "USD"})
	require.NotNil(t, amount)
	assert.Equal(t, 49.99, *amount)
	require.NotNil(t, currency)
	assert.Equal(t, "USD", *currency)

	amount, currency = parseMoney(nil)
	assert.Nil(t, amount)
	assert.Nil(t, currency)

	amount, currency = parseMoney(&moneyRef{Amount: "oops"})
	assert.Nil(t, amount)
	assert.Nil(t, currency)
}
