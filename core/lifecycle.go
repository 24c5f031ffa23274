package core

import (
	"fmt"
	"time"
)

// LifecycleCategory is the coarse display classification of an offer state.
type LifecycleCategory int

const (
	// CategoryActive covers states the card renders as live: Active itself,
	// plus the pre-listing states Draft and PendingEscrow, which carry no
	// banner.
	CategoryActive LifecycleCategory = iota

	// CategoryInactive covers terminal states rendered with a banner.
	CategoryInactive
)

// String returns the category name.
func (c LifecycleCategory) String() string {
	if c == CategoryActive {
		return "Active"
	}
	return "Inactive"
}

// LifecycleCategory classifies the state for display. The switch is
// exhaustive over the defined states; an undefined value panics rather than
// silently landing in a default branch, so a state added to the canister
// without a mapping here fails loudly.
func (s OfferState) LifecycleCategory() LifecycleCategory {
	switch s {
	case StateDraft, StatePendingEscrow, StateActive:
		return CategoryActive
	case StateCompleted, StateClaimed, StateExpired, StateCancelled, StateReclaimed:
		return CategoryInactive
	default:
		panic(fmt.Sprintf("core: undefined offer state %d", int(s)))
	}
}

// BannerLabel returns the banner text shown over an inactive offer card:
// "SOLD", "EXPIRED", "CANCELLED", or "" for states with no banner.
func (s OfferState) BannerLabel() string {
	switch s {
	case StateCompleted, StateClaimed:
		return "SOLD"
	case StateExpired, StateReclaimed:
		return "EXPIRED"
	case StateCancelled:
		return "CANCELLED"
	default:
		return ""
	}
}

// IsPastExpiration reports whether the offer's expiration has passed. The
// caller supplies now so the check stays deterministic under test; an offer
// without an expiration never expires.
func IsPastExpiration(expiration *time.Time, now time.Time) bool {
	return expiration != nil && now.After(*expiration)
}
