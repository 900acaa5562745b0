package disputesync

import (
	"context"
	"fmt"

	"github.com/chargeward/chargeward/app/models"
)

// Syncer reconciles a shop's remote disputes and chargebacks into local
// storage. Both collaborators are injected; the syncer holds no globals.
type Syncer struct {
	gql      GraphQLExecutor
	disputes DisputeStore
}

// NewSyncer creates a syncer from an authenticated GraphQL executor and a
// dispute store.
func NewSyncer(gql GraphQLExecutor, disputes DisputeStore) *Syncer {
	return &Syncer{gql: gql, disputes: disputes}
}

// SyncDisputes runs the dispute pass: fetch (with orders fallback),
// normalize, and upsert each record sequentially. A storage failure aborts
// the remaining batch; earlier upserts stay committed.
func (s *Syncer) SyncDisputes(ctx context.Context, shop *models.Shop) (int, error) {
	edges, err := s.fetchDisputeEdges(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, edge := range edges {
		d := normalizeDispute(edge)
		d.ShopID = shop.ID
		if err := s.disputes.Upsert(&d); err != nil {
			return count, fmt.Errorf("failed to upsert dispute %s: %w", d.RemoteID, err)
		}
		count++
	}
	return count, nil
}

// SyncChargebacks runs the independent chargeback pass over recent order
// transactions. No fallback exists on this path.
func (s *Syncer) SyncChargebacks(ctx context.Context, shop *models.Shop) (int, error) {
	edges, err := s.fetchChargebackEdges(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, edge := range edges {
		d := normalizeChargeback(edge)
		d.ShopID = shop.ID
		if err := s.disputes.Upsert(&d); err != nil {
			return count, fmt.Errorf("failed to upsert chargeback %s: %w", d.RemoteID, err)
		}
		count++
	}
	return count, nil
}

// Sync runs both passes and reports the total number of records persisted.
func (s *Syncer) Sync(ctx context.Context, shop *models.Shop) (int, error) {
	total, err := s.SyncDisputes(ctx, shop)
	if err != nil {
		return total, err
	}

	cbCount, err := s.SyncChargebacks(ctx, shop)
	total += cbCount
	if err != nil {
		return total, err
	}
	return total, nil
}
