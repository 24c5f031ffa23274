package core

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// OfferState is the lifecycle state of a marketplace offer. States are
// mutated exclusively by the marketplace canister; this library only
// classifies them for display.
type OfferState int

const (
	StateDraft OfferState = iota
	StatePendingEscrow
	StateActive
	StateCompleted
	StateClaimed
	StateExpired
	StateCancelled
	StateReclaimed
)

// String returns the canister-side variant name for the state.
func (s OfferState) String() string {
	switch s {
	case StateDraft:
		return "Draft"
	case StatePendingEscrow:
		return "PendingEscrow"
	case StateActive:
		return "Active"
	case StateCompleted:
		return "Completed"
	case StateClaimed:
		return "Claimed"
	case StateExpired:
		return "Expired"
	case StateCancelled:
		return "Cancelled"
	case StateReclaimed:
		return "Reclaimed"
	default:
		return "Unknown"
	}
}

// Offer is an immutable snapshot of a listing's pricing terms.
// All amounts are in the payment token's smallest unit.
type Offer struct {
	ID               uint64
	PriceTokenLedger string

	// MinBidPrice is the minimum starting bid. Nil when the seller set no minimum.
	MinBidPrice *big.Int

	// BuyoutPrice is the instant-purchase amount. Nil when no buyout is configured.
	BuyoutPrice *big.Int

	// MinBidIncrementFeeMultiple, when set together with a known token fee,
	// makes the minimum increment over the highest bid equal to
	// multiple * fee. Nil means the 1-smallest-unit default applies.
	MinBidIncrementFeeMultiple *uint64

	State OfferState

	// Expiration is the instant after which the offer is no longer biddable.
	// Nil means the offer does not expire.
	Expiration *time.Time
}

// HasPrice reports whether the offer is meaningfully priced. An offer with
// neither a minimum bid nor a buyout yields a MinimumNextBid of zero, and
// that zero means "unpriced", not "free".
func (o Offer) HasPrice() bool {
	return o.MinBidPrice != nil || o.BuyoutPrice != nil
}

// Bid is a single bid placed on an offer.
type Bid struct {
	Amount *big.Int
	Bidder string
}

// BidInfo is the bid history snapshot for one offer, as supplied by the
// marketplace canister. Bids holds the full history in placement order;
// only its length is used for display. HighestBid is nil when no bids
// have been placed.
type BidInfo struct {
	Bids       []Bid
	HighestBid *Bid
}

// TokenInfo describes the payment token of an offer.
type TokenInfo struct {
	// Decimals is the number of fractional digits one whole token carries.
	Decimals uint8

	// Fee is the token's standard transfer fee in smallest units. Nil when
	// the ledger did not report one; the fee-multiple increment rule cannot
	// apply without it.
	Fee *big.Int

	// Symbol is display-only and never used in computation.
	Symbol string
}

// PriceQuote is an externally supplied USD quote for one token.
type PriceQuote struct {
	// USDPerToken is the price of one whole token in USD. Nil means no
	// quote is available and USD figures cannot be computed.
	USDPerToken *decimal.Decimal
}
