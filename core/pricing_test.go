package core

import (
	"math/big"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func amount(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	assert.True(t, ok)
	return n
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func TestMinimumNextBid(t *testing.T) {
	tests := []struct {
		name        string
		minBid      string // "" = absent
		buyout      string // "" = absent
		feeMultiple *uint64
		fee         string // "" = unknown
		highestBid  string // "" = no bids
		expected    string
	}{
		{
			name:     "no bids, both prices set",
			minBid:   "100",
			buyout:   "500",
			expected: "100",
		},
		{
			name:     "no bids, buyout only",
			buyout:   "500",
			expected: "500",
		},
		{
			name:     "no bids, min bid only",
			minBid:   "250",
			expected: "250",
		},
		{
			name:     "no bids, no prices configured",
			expected: "0",
		},
		{
			name:        "bid present, increment from fee multiple",
			minBid:      "100",
			feeMultiple: uint64Ptr(5),
			fee:         "10",
			highestBid:  "1000",
			expected:    "1050",
		},
		{
			name:        "bid present, increment clamps to buyout",
			minBid:      "100",
			buyout:      "1000",
			feeMultiple: uint64Ptr(5),
			fee:         "10",
			highestBid:  "990",
			expected:    "1000",
		},
		{
			name:       "bid present, no fee known, unit increment",
			minBid:     "100",
			highestBid: "1000",
			expected:   "1001",
		},
		{
			name:        "bid present, fee known but no multiple configured",
			minBid:      "100",
			fee:         "10",
			highestBid:  "1000",
			expected:    "1001",
		},
		{
			name:        "bid present, multiple configured but fee unknown",
			minBid:      "100",
			feeMultiple: uint64Ptr(5),
			highestBid:  "1000",
			expected:    "1001",
		},
		{
			name:       "candidate exactly at buyout is not clamped",
			buyout:     "1001",
			highestBid: "1000",
			expected:   "1001",
		},
		{
			name:        "amounts beyond int64 range survive increment arithmetic",
			minBid:      "100",
			feeMultiple: uint64Ptr(10),
			fee:         "100000000",
			highestBid:  "92233720368547758070000", // ~1e4 times 2^63
			expected:    "92233720368547759070000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := Offer{
				ID:                         1,
				PriceTokenLedger:           "ledger-1",
				MinBidIncrementFeeMultiple: tt.feeMultiple,
				State:                      StateActive,
			}
			if tt.minBid != "" {
				offer.MinBidPrice = amount(t, tt.minBid)
			}
			if tt.buyout != "" {
				offer.BuyoutPrice = amount(t, tt.buyout)
			}

			token := TokenInfo{Decimals: 8, Symbol: "SNEED"}
			if tt.fee != "" {
				token.Fee = amount(t, tt.fee)
			}

			bids := BidInfo{}
			if tt.highestBid != "" {
				highest := Bid{Amount: amount(t, tt.highestBid), Bidder: "bidder-1"}
				bids.Bids = []Bid{highest}
				bids.HighestBid = &highest
			}

			result := MinimumNextBid(offer, bids, token)
			check.Equal(t, tt.expected, result.String())

			// Pure function: same inputs, same output.
			again := MinimumNextBid(offer, bids, token)
			check.Equal(t, tt.expected, again.String())
		})
	}
}

func TestMinimumNextBidDoesNotAliasInputs(t *testing.T) {
	offer := Offer{MinBidPrice: amount(t, "100")}
	result := MinimumNextBid(offer, BidInfo{}, TokenInfo{})

	result.Add(result, big.NewInt(1))
	check.Equal(t, "100", offer.MinBidPrice.String())
}

func TestMinimumNextBidPanicsOnNegativeAmount(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative highest bid amount")
		}
	}()

	highest := Bid{Amount: big.NewInt(-5), Bidder: "bidder-1"}
	MinimumNextBid(Offer{}, BidInfo{Bids: []Bid{highest}, HighestBid: &highest}, TokenInfo{})
}

func TestIsBuyoutOnly(t *testing.T) {
	tests := []struct {
		name           string
		minBid         string
		buyout         string
		minimumNextBid string
		expected       bool
	}{
		{
			name:           "no buyout price, never buyout-only",
			minBid:         "100",
			minimumNextBid: "100",
			expected:       false,
		},
		{
			name:           "buyout without min bid",
			buyout:         "500",
			minimumNextBid: "500",
			expected:       true,
		},
		{
			name:           "min bid below buyout",
			minBid:         "100",
			buyout:         "500",
			minimumNextBid: "100",
			expected:       false,
		},
		{
			name:           "ladder reached buyout exactly",
			minBid:         "100",
			buyout:         "1000",
			minimumNextBid: "1000",
			expected:       true,
		},
		{
			name:           "ladder exceeded buyout",
			minBid:         "100",
			buyout:         "1000",
			minimumNextBid: "1040",
			expected:       true,
		},
		{
			name:           "one unit below buyout still bids",
			minBid:         "100",
			buyout:         "1000",
			minimumNextBid: "999",
			expected:       false,
		},
		{
			name:           "neither price configured",
			minimumNextBid: "0",
			expected:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := Offer{}
			if tt.minBid != "" {
				offer.MinBidPrice = amount(t, tt.minBid)
			}
			if tt.buyout != "" {
				offer.BuyoutPrice = amount(t, tt.buyout)
			}

			check.Equal(t, tt.expected, IsBuyoutOnly(offer, amount(t, tt.minimumNextBid)))
		})
	}
}

// A clamped next bid flips the card to buyout-only: once increments push the
// candidate past the buyout, MinimumNextBid and BuyoutPrice show the same
// number and the separate min-bid field is dropped.
func TestClampedNextBidIsBuyoutOnly(t *testing.T) {
	offer := Offer{
		MinBidPrice:                amount(t, "100"),
		BuyoutPrice:                amount(t, "1000"),
		MinBidIncrementFeeMultiple: uint64Ptr(5),
	}
	token := TokenInfo{Decimals: 8, Fee: amount(t, "10")}
	highest := Bid{Amount: amount(t, "990"), Bidder: "bidder-1"}
	bids := BidInfo{Bids: []Bid{highest}, HighestBid: &highest}

	minimumNext := MinimumNextBid(offer, bids, token)
	assert.Equal(t, "1000", minimumNext.String())
	check.True(t, IsBuyoutOnly(offer, minimumNext))

	// One increment earlier the same offer still shows a min-bid field.
	earlier := Bid{Amount: amount(t, "900"), Bidder: "bidder-1"}
	earlierBids := BidInfo{Bids: []Bid{earlier}, HighestBid: &earlier}
	minimumNext = MinimumNextBid(offer, earlierBids, token)
	assert.Equal(t, "950", minimumNext.String())
	check.False(t, IsBuyoutOnly(offer, minimumNext))
}

func TestHasPrice(t *testing.T) {
	check.False(t, Offer{}.HasPrice())
	check.True(t, Offer{MinBidPrice: big.NewInt(0)}.HasPrice())
	check.True(t, Offer{BuyoutPrice: big.NewInt(500)}.HasPrice())
}
