package billing

import (
	"time"

	"github.com/chargeward/chargeward/app/models"
)

// TrialDays is the trial window granted at install.
const TrialDays = 7

// IsOnTrial reports whether the shop is inside its trial window at the given
// instant. Both trial timestamps must be set, the instant must fall within
// [start, end] inclusive, and billing must not already be active.
func IsOnTrial(shop *models.Shop, now time.Time) bool {
	if shop.BillingActive {
		return false
	}
	if shop.TrialStartsAt == nil || shop.TrialEndsAt == nil {
		return false
	}
	return !now.Before(*shop.TrialStartsAt) && !now.After(*shop.TrialEndsAt)
}

// HasActiveBilling reports whether the shop may use gated features: on trial,
// or billing is active and the subscription either has no recorded end date
// (open-ended) or the instant is on-or-before that end date.
func HasActiveBilling(shop *models.Shop, now time.Time) bool {
	if IsOnTrial(shop, now) {
		return true
	}
	if !shop.BillingActive {
		return false
	}
	if shop.SubscriptionEndsAt == nil {
		return true
	}
	return !now.After(*shop.SubscriptionEndsAt)
}
