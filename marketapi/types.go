// Package marketapi holds the wire shapes the Sneed Hub marketplace canister
// emits and their decoding into the clean types of package core.
//
// The canister speaks Candid; by the time records reach this library the
// agent layer has re-encoded them as JSON (or CBOR, for indexer snapshot
// dumps) with two Candid conventions intact: optional fields are 0-or-1
// element arrays, and variants are single-key objects like {"Active": null}.
// Amounts are decimal strings because Candid naturals exceed uint64 for
// high-supply tokens. Nothing outside this package should ever see those
// encodings.
package marketapi

// RawOffer mirrors a marketplace offer record as queried from the canister.
type RawOffer struct {
	ID                         uint64              `json:"id" cbor:"id"`
	PriceTokenLedger           string              `json:"price_token_ledger" cbor:"price_token_ledger" validate:"required"`
	MinBidPrice                []string            `json:"min_bid_price" cbor:"min_bid_price" validate:"max=1"`
	BuyoutPrice                []string            `json:"buyout_price" cbor:"buyout_price" validate:"max=1"`
	MinBidIncrementFeeMultiple []uint64            `json:"min_bid_increment_fee_multiple" cbor:"min_bid_increment_fee_multiple" validate:"max=1"`
	State                      map[string]struct{} `json:"state" cbor:"state" validate:"required,len=1"`
	ExpirationNanos            []uint64            `json:"expiration" cbor:"expiration" validate:"max=1"`
}

// RawBid is a single bid inside an offer's bid history.
type RawBid struct {
	Amount string `json:"amount" cbor:"amount" validate:"required"`
	Bidder string `json:"bidder" cbor:"bidder" validate:"required"`
}

// RawBidInfo is the bid history for one offer. HighestBid uses the optional
// array encoding: empty when no bids have been placed.
type RawBidInfo struct {
	Bids       []RawBid `json:"bids" cbor:"bids" validate:"dive"`
	HighestBid []RawBid `json:"highest_bid" cbor:"highest_bid" validate:"max=1,dive"`
}

// RawTokenInfo is the payment token metadata from the token ledger.
type RawTokenInfo struct {
	Decimals uint8    `json:"decimals" cbor:"decimals"`
	Fee      []string `json:"fee" cbor:"fee" validate:"max=1"`
	Symbol   string   `json:"symbol" cbor:"symbol" validate:"required"`
}

// RawPriceQuote is the per-token USD quote from the price service. The value
// is a decimal string; empty means no quote is available for the token.
type RawPriceQuote struct {
	USDPerToken []string `json:"usd_per_token" cbor:"usd_per_token" validate:"max=1"`
}

// OfferSnapshot bundles everything needed to price one offer card. The hub's
// indexer dumps these as JSON or CBOR; DecodeSnapshot accepts either.
type OfferSnapshot struct {
	Offer RawOffer      `json:"offer" cbor:"offer" validate:"required"`
	Bids  RawBidInfo    `json:"bids" cbor:"bids"`
	Token RawTokenInfo  `json:"token" cbor:"token" validate:"required"`
	Quote RawPriceQuote `json:"quote" cbor:"quote"`
}
