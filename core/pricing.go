package core

import (
	"fmt"
	"math/big"
)

// MinimumNextBid returns the smallest amount a new bid must meet or exceed
// to be valid right now, in the payment token's smallest unit.
//
// With a standing highest bid the result is highestBid + increment, clamped
// to the buyout price when one is configured. The increment is
// MinBidIncrementFeeMultiple * token fee when both are known, otherwise one
// smallest unit. With no bids the result is the minimum bid price, falling
// back to the buyout price. An offer with neither returns zero; callers must
// check Offer.HasPrice before treating zero as a biddable amount.
//
// All arithmetic stays in big.Int. Amounts for high-supply tokens exceed the
// int64 range, so nothing here may round-trip through a machine word or a
// float.
func MinimumNextBid(offer Offer, bids BidInfo, token TokenInfo) *big.Int {
	mustBeValidAmount("Offer.MinBidPrice", offer.MinBidPrice)
	mustBeValidAmount("Offer.BuyoutPrice", offer.BuyoutPrice)
	mustBeValidAmount("TokenInfo.Fee", token.Fee)

	if bids.HighestBid != nil {
		if bids.HighestBid.Amount == nil {
			panic("core: BidInfo.HighestBid has nil amount")
		}
		mustBeValidAmount("BidInfo.HighestBid.Amount", bids.HighestBid.Amount)

		candidate := new(big.Int).Add(bids.HighestBid.Amount, bidIncrement(offer, token))
		if offer.BuyoutPrice != nil && candidate.Cmp(offer.BuyoutPrice) > 0 {
			return new(big.Int).Set(offer.BuyoutPrice)
		}
		return candidate
	}

	if offer.MinBidPrice != nil {
		return new(big.Int).Set(offer.MinBidPrice)
	}
	if offer.BuyoutPrice != nil {
		return new(big.Int).Set(offer.BuyoutPrice)
	}
	return new(big.Int)
}

// bidIncrement returns the minimum amount a new bid must add on top of the
// current highest bid. The fee-multiple rule applies only when both the
// multiple and the token fee are known.
func bidIncrement(offer Offer, token TokenInfo) *big.Int {
	if offer.MinBidIncrementFeeMultiple != nil && token.Fee != nil {
		multiple := new(big.Int).SetUint64(*offer.MinBidIncrementFeeMultiple)
		return multiple.Mul(multiple, token.Fee)
	}
	return big.NewInt(1)
}

// IsBuyoutOnly reports whether the offer should be displayed as buyout-only,
// hiding the minimum-bid field. An offer without a buyout price is never
// buyout-only. With a buyout price it is buyout-only when no separate minimum
// bid was configured, or when the bidding ladder has already reached or
// exceeded the buyout so no meaningful next bid below it remains.
//
// minimumNextBid must be the value returned by MinimumNextBid for the same
// offer snapshot.
func IsBuyoutOnly(offer Offer, minimumNextBid *big.Int) bool {
	if offer.BuyoutPrice == nil {
		return false
	}
	if offer.MinBidPrice == nil {
		return true
	}
	if minimumNextBid == nil {
		panic("core: IsBuyoutOnly called with nil minimumNextBid")
	}
	return minimumNextBid.Cmp(offer.BuyoutPrice) >= 0
}

// mustBeValidAmount panics on negative amounts. Amounts come from canister
// records that encode them as naturals, so a negative value here is a
// decoding bug upstream, not recoverable data.
func mustBeValidAmount(name string, v *big.Int) {
	if v != nil && v.Sign() < 0 {
		panic(fmt.Sprintf("core: %s is negative (%s)", name, v.String()))
	}
}
