package disputesync

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/chargeward/chargeward/internal/pkg/shopify"
)

// fetchDisputeEdges attempts the direct disputes query first. When the call
// fails or the response carries a GraphQL-level error payload, it falls back
// to the orders query and flattens order → disputes[] into the same edge
// shape, attaching the parent order's id/name/email to each dispute. Only a
// failure of the fallback itself propagates.
func (s *Syncer) fetchDisputeEdges(ctx context.Context) ([]DisputeEdge, error) {
	resp, err := s.gql.Execute(ctx, shopify.DisputesQuery, nil)
	if err == nil && !resp.HasErrors() {
		return decodeDisputeEdges(resp.Data)
	}
	if err != nil {
		log.Printf("disputes query failed, falling back to orders query: %v", err)
	} else {
		log.Printf("disputes query returned errors, falling back to orders query: %s", resp.ErrorMessages())
	}

	fresp, ferr := s.gql.Execute(ctx, shopify.OrdersWithDisputesQuery, nil)
	if ferr != nil {
		return nil, fmt.Errorf("orders fallback query failed: %w", ferr)
	}
	if fresp.HasErrors() {
		return nil, fmt.Errorf("orders fallback query returned errors: %s", fresp.ErrorMessages())
	}
	return flattenOrderDisputes(fresp.Data)
}

// fetchChargebackEdges queries recent orders with their transactions and
// keeps one edge per transaction of kind CHARGEBACK (case-insensitive).
// There is no fallback on this path; failures propagate.
func (s *Syncer) fetchChargebackEdges(ctx context.Context) ([]ChargebackEdge, error) {
	resp, err := s.gql.Execute(ctx, shopify.OrdersWithTransactionsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("chargeback orders query failed: %w", err)
	}
	if resp.HasErrors() {
		return nil, fmt.Errorf("chargeback orders query returned errors: %s", resp.ErrorMessages())
	}

	var payload struct {
		Orders struct {
			Edges []struct {
				Node struct {
					orderNode
					Transactions []transactionNode `json:"transactions"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode chargeback orders: %w", err)
	}

	var edges []ChargebackEdge
	for _, e := range payload.Orders.Edges {
		for _, tx := range e.Node.Transactions {
			if !strings.EqualFold(tx.Kind, "CHARGEBACK") {
				continue
			}
			edges = append(edges, ChargebackEdge{
				Transaction: tx,
				Order:       e.Node.orderNode,
			})
		}
	}
	return edges, nil
}

func decodeDisputeEdges(data json.RawMessage) ([]DisputeEdge, error) {
	var payload struct {
		ShopifyPaymentsDisputes struct {
			Edges []struct {
				Node json.RawMessage `json:"node"`
			} `json:"edges"`
		} `json:"shopifyPaymentsDisputes"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode disputes: %w", err)
	}

	edges := make([]DisputeEdge, 0, len(payload.ShopifyPaymentsDisputes.Edges))
	for _, e := range payload.ShopifyPaymentsDisputes.Edges {
		var node disputeNode
		if err := json.Unmarshal(e.Node, &node); err != nil {
			return nil, fmt.Errorf("failed to decode dispute node: %w", err)
		}
		edges = append(edges, DisputeEdge{Node: node, Raw: e.Node})
	}
	return edges, nil
}

// flattenOrderDisputes converts the fallback orders response into dispute
// edges, one per nested dispute, carrying the parent order reference.
func flattenOrderDisputes(data json.RawMessage) ([]DisputeEdge, error) {
	var payload struct {
		Orders struct {
			Edges []struct {
				Node struct {
					orderNode
					Disputes []orderDisputeRef `json:"disputes"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode fallback orders: %w", err)
	}

	var edges []DisputeEdge
	for _, e := range payload.Orders.Edges {
		order := e.Node.orderNode
		for _, d := range e.Node.Disputes {
			node := disputeNode{
				ID:     d.ID,
				Status: d.Status,
				Type:   d.InitiatedAs,
				Order:  &order,
			}
			raw, err := json.Marshal(node)
			if err != nil {
				return nil, fmt.Errorf("failed to encode flattened dispute: %w", err)
			}
			edges = append(edges, DisputeEdge{Node: node, Raw: raw})
		}
	}
	return edges, nil
}
