package disputesync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargeward/chargeward/internal/pkg/shopify"
)

// fakeExecutor returns a canned response per query string and records the
// order queries were executed in.
type fakeExecutor struct {
	responses map[string]*shopify.GraphQLResponse
	errs      map[string]error
	calls     []string
}

func (f *fakeExecutor) Execute(_ context.Context, query string, _ map[string]interface{}) (*shopify.GraphQLResponse, error) {
	f.calls = append(f.calls, query)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	if resp, ok := f.responses[query]; ok {
		return resp, nil
	}
	return &shopify.GraphQLResponse{Data: json.RawMessage(`{}`)}, nil
}

const disputesPayload = `{
	"shopifyPaymentsDisputes": {
		"edges": [
			{"node": {"id": "gid://shopify/ShopifyPaymentsDispute/1", "status": "NEEDS_RESPONSE"}},
			{"node": {"id": "gid://shopify/ShopifyPaymentsDispute/2", "status": "WON"}}
		]
	}
}`

const ordersFallbackPayload = `{
	"orders": {
		"edges": [
			{"node": {
				"id": "gid://shopify/Order/10",
				"name": "#1010",
				"email": "c@example.com",
				"disputes": [
					{"id": "gid://shopify/ShopifyPaymentsDispute/3", "status": "UNDER_REVIEW", "initiatedAs": "CHARGEBACK"}
				]
			}}
		]
	}
}`

const ordersTransactionsPayload = `{
	"orders": {
		"edges": [
			{"node": {
				"id": "gid://shopify/Order/20",
				"name": "#1020",
				"transactions": [
					{"id": "gid://shopify/OrderTransaction/100", "kind": "SALE", "status": "SUCCESS"},
					{"id": "gid://shopify/OrderTransaction/101", "kind": "CHARGEBACK", "status": "PENDING"},
					{"id": "gid://shopify/OrderTransaction/102", "kind": "chargeback", "status": "SUCCESS"}
				]
			}}
		]
	}
}`

func TestFetchDisputeEdgesPrimaryQuery(t *testing.T) {
	gql := &fakeExecutor{responses: map[string]*shopify.GraphQLResponse{
		shopify.DisputesQuery: {Data: json.RawMessage(disputesPayload)},
	}}
	s := NewSyncer(gql, nil)

	edges, err := s.fetchDisputeEdges(context.Background())

	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "gid://shopify/ShopifyPaymentsDispute/1", edges[0].Node.ID)
	assert.Equal(t, []string{shopify.DisputesQuery}, gql.calls)
}

func TestFetchDisputeEdgesFallsBackOnTransportError(t *testing.T) {
	gql := &fakeExecutor{
		errs: map[string]error{
			shopify.DisputesQuery: errors.New("connection refused"),
		},
		responses: map[string]*shopify.GraphQLResponse{
			shopify.OrdersWithDisputesQuery: {Data: json.RawMessage(ordersFallbackPayload)},
		},
	}
	s := NewSyncer(gql, nil)

	edges, err := s.fetchDisputeEdges(context.Background())

	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "gid://shopify/ShopifyPaymentsDispute/3", edges[0].Node.ID)
	require.NotNil(t, edges[0].Node.Order)
	assert.Equal(t, "#1010", edges[0].Node.Order.Name)
	assert.Equal(t, []string{shopify.DisputesQuery, shopify.OrdersWithDisputesQuery}, gql.calls)
}

func TestFetchDisputeEdgesFallsBackOnGraphQLErrors(t *testing.T) {
	gql := &fakeExecutor{responses: map[string]*shopify.GraphQLResponse{
		shopify.DisputesQuery: {
			Errors: []shopify.GraphQLError{{Message: "Access denied for shopifyPaymentsDisputes"}},
		},
		shopify.OrdersWithDisputesQuery: {Data: json.RawMessage(ordersFallbackPayload)},
	}}
	s := NewSyncer(gql, nil)

	edges, err := s.fetchDisputeEdges(context.Background())

	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, []string{shopify.DisputesQuery, shopify.OrdersWithDisputesQuery}, gql.calls)
}

func TestFetchDisputeEdgesFallbackFailurePropagates(t *testing.T) {
	gql := &fakeExecutor{errs: map[string]error{
		shopify.DisputesQuery:           errors.New("boom"),
		shopify.OrdersWithDisputesQuery: errors.New("also boom"),
	}}
	s := NewSyncer(gql, nil)

	_, err := s.fetchDisputeEdges(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders fallback query failed")
}

func TestFetchChargebackEdgesFiltersByKind(t *testing.T) {
	gql := &fakeExecutor{responses: map[string]*shopify.GraphQLResponse{
		shopify.OrdersWithTransactionsQuery: {Data: json.RawMessage(ordersTransactionsPayload)},
	}}
	s := NewSyncer(gql, nil)

	edges, err := s.fetchChargebackEdges(context.Background())

	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "gid://shopify/OrderTransaction/101", edges[0].Transaction.ID)
	assert.Equal(t, "gid://shopify/OrderTransaction/102", edges[1].Transaction.ID)
	assert.Equal(t, "#1020", edges[0].Order.Name)
}

func TestFetchChargebackEdgesNoFallback(t *testing.T) {
	gql := &fakeExecutor{errs: map[string]error{
		shopify.OrdersWithTransactionsQuery: errors.New("rate limited"),
	}}
	s := NewSyncer(gql, nil)

	_, err := s.fetchChargebackEdges(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{shopify.OrdersWithTransactionsQuery}, gql.calls)
}

func TestFetchChargebackEdgesGraphQLErrorsPropagate(t *testing.T) {
	gql := &fakeExecutor{responses: map[string]*shopify.GraphQLResponse{
		shopify.OrdersWithTransactionsQuery: {
			Errors: []shopify.GraphQLError{{Message: "throttled"}},
		},
	}}
	s := NewSyncer(gql, nil)

	_, err := s.fetchChargebackEdges(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
