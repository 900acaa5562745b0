package disputesync

import (
	"context"
	"encoding/json"

	"github.com/chargeward/chargeward/app/models"
	"github.com/chargeward/chargeward/internal/pkg/shopify"
)

// GraphQLExecutor is the slice of the Shopify client the reconciler needs.
// Injected so sync logic is testable without a live shop.
type GraphQLExecutor interface {
	Execute(ctx context.Context, query string, variables map[string]interface{}) (*shopify.GraphQLResponse, error)
}

// DisputeStore is the slice of storage the reconciler needs.
type DisputeStore interface {
	Upsert(dispute *models.Dispute) error
}

// DisputeEdge is one raw dispute record ready for normalization. Raw holds
// the upstream node verbatim for audit/display.
type DisputeEdge struct {
	Node disputeNode
	Raw  json.RawMessage
}

// ChargebackEdge is one chargeback transaction paired with its parent order.
type ChargebackEdge struct {
	Transaction transactionNode
	Order       orderNode
}

type disputeNode struct {
	ID             string     `json:"id"`
	Type           string     `json:"type,omitempty"`
	Status         string     `json:"status,omitempty"`
	ReasonDetails  *reasonRef `json:"reasonDetails,omitempty"`
	Amount         *moneyRef  `json:"amount,omitempty"`
	EvidenceDueBy  string     `json:"evidenceDueBy,omitempty"`
	EvidenceSentOn string     `json:"evidenceSentOn,omitempty"`
	Order          *orderNode `json:"order,omitempty"`
}

type reasonRef struct {
	Reason string `json:"reason"`
}

type moneyRef struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type customerRef struct {
	Email string `json:"email"`
}

type orderNode struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email,omitempty"`
	Customer *customerRef `json:"customer,omitempty"`
}

// orderDisputeRef is the slim dispute shape nested under orders in the
// fallback query.
type orderDisputeRef struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	InitiatedAs string `json:"initiatedAs,omitempty"`
}

type transactionNode struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	AmountSet *struct {
		ShopMoney *moneyRef `json:"shopMoney"`
	} `json:"amountSet,omitempty"`
}

// customerEmail prefers the nested customer object, falling back to the
// order-level email field the fallback query exposes.
func (o *orderNode) customerEmail() string {
	if o == nil {
		return ""
	}
	if o.Customer != nil && o.Customer.Email != "" {
		return o.Customer.Email
	}
	return o.Email
}
