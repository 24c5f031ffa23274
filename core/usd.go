package core

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ConvertToUSD converts an amount in token smallest units to USD using the
// supplied quote. The boolean is false when no USD figure can be computed:
// the quote is absent, or the amount is zero (a zero amount means "unpriced"
// to callers of MinimumNextBid, and rendering it as $0.00 would present a
// missing price as a real one).
//
// This is the single point where an integer amount is widened to decimal.
// Bid-increment arithmetic must never pass through here first; repeated
// integer->decimal->integer trips compound rounding error.
func ConvertToUSD(amount *big.Int, decimals uint8, quote PriceQuote) (decimal.Decimal, bool) {
	if amount == nil {
		panic("core: ConvertToUSD called with nil amount")
	}
	if amount.Sign() < 0 {
		panic(fmt.Sprintf("core: ConvertToUSD called with negative amount %s", amount.String()))
	}
	if quote.USDPerToken != nil && quote.USDPerToken.Sign() <= 0 {
		panic(fmt.Sprintf("core: quote is not a positive price (%s)", quote.USDPerToken.String()))
	}

	if amount.Sign() == 0 || quote.USDPerToken == nil {
		return decimal.Decimal{}, false
	}

	wholeUnits := decimal.NewFromBigInt(amount, -int32(decimals))
	return wholeUnits.Mul(*quote.USDPerToken), true
}

// EffectivePriceUSD returns the USD value of what the offer currently costs:
// the highest bid when one exists, otherwise the minimum next bid. The
// boolean is false when that value cannot be expressed in USD.
func EffectivePriceUSD(offer Offer, bids BidInfo, token TokenInfo, quote PriceQuote) (decimal.Decimal, bool) {
	if bids.HighestBid != nil {
		if bids.HighestBid.Amount == nil {
			panic("core: BidInfo.HighestBid has nil amount")
		}
		return ConvertToUSD(bids.HighestBid.Amount, token.Decimals, quote)
	}
	return ConvertToUSD(MinimumNextBid(offer, bids, token), token.Decimals, quote)
}

// IsGoodDeal reports whether the offer's estimated value beats its current
// effective price. Either side being unavailable, or a non-positive
// estimate, yields false; the card deliberately collapses "unknown" into
// "not a good deal" rather than showing a third state.
func IsGoodDeal(estimatedValueUSD, currentPriceUSD *decimal.Decimal) bool {
	if estimatedValueUSD == nil || currentPriceUSD == nil {
		return false
	}
	if estimatedValueUSD.Sign() <= 0 {
		return false
	}
	return estimatedValueUSD.GreaterThan(*currentPriceUSD)
}
