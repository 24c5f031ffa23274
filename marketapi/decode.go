package marketapi

import (
	"bytes"
	"encoding/json"
	"math/big"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/sneed-hub/marketpricing/core"
)

// Snapshot is a fully decoded offer card input set, ready for the pricing
// engine.
type Snapshot struct {
	Offer core.Offer
	Bids  core.BidInfo
	Token core.TokenInfo
	Quote core.PriceQuote
}

var stateByVariant = map[string]core.OfferState{
	"Draft":         core.StateDraft,
	"PendingEscrow": core.StatePendingEscrow,
	"Active":        core.StateActive,
	"Completed":     core.StateCompleted,
	"Claimed":       core.StateClaimed,
	"Expired":       core.StateExpired,
	"Cancelled":     core.StateCancelled,
	"Reclaimed":     core.StateReclaimed,
}

// DecodeSnapshot parses a snapshot dump. JSON and CBOR are both accepted;
// JSON is detected by the leading byte so callers need not say which format
// the indexer produced.
func DecodeSnapshot(data []byte) (*OfferSnapshot, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errors.New("empty snapshot")
	}

	var snapshot OfferSnapshot
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &snapshot); err != nil {
			return nil, errors.Wrap(err, "parse JSON snapshot")
		}
	} else {
		if err := cbor.Unmarshal(data, &snapshot); err != nil {
			return nil, errors.Wrap(err, "parse CBOR snapshot")
		}
	}
	return &snapshot, nil
}

// Decode converts the raw snapshot into engine-ready core types.
func (s *OfferSnapshot) Decode() (*Snapshot, error) {
	offer, err := DecodeOffer(s.Offer)
	if err != nil {
		return nil, err
	}
	bids, err := DecodeBidInfo(s.Bids)
	if err != nil {
		return nil, err
	}
	token, err := DecodeTokenInfo(s.Token)
	if err != nil {
		return nil, err
	}
	quote, err := DecodePriceQuote(s.Quote)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Offer: offer, Bids: bids, Token: token, Quote: quote}, nil
}

// DecodeOffer converts a raw offer record, collapsing the optional-array and
// variant encodings into pointers and a proper state value.
func DecodeOffer(raw RawOffer) (core.Offer, error) {
	minBid, err := optAmount("min_bid_price", raw.MinBidPrice)
	if err != nil {
		return core.Offer{}, err
	}
	buyout, err := optAmount("buyout_price", raw.BuyoutPrice)
	if err != nil {
		return core.Offer{}, err
	}
	feeMultiple, err := optUint64("min_bid_increment_fee_multiple", raw.MinBidIncrementFeeMultiple)
	if err != nil {
		return core.Offer{}, err
	}
	state, err := DecodeState(raw.State)
	if err != nil {
		return core.Offer{}, err
	}
	expiration, err := optTimestamp("expiration", raw.ExpirationNanos)
	if err != nil {
		return core.Offer{}, err
	}

	return core.Offer{
		ID:                         raw.ID,
		PriceTokenLedger:           raw.PriceTokenLedger,
		MinBidPrice:                minBid,
		BuyoutPrice:                buyout,
		MinBidIncrementFeeMultiple: feeMultiple,
		State:                      state,
		Expiration:                 expiration,
	}, nil
}

// DecodeState converts a single-key variant object into an OfferState.
// Unknown variant keys are rejected rather than defaulted so a state added
// to the canister surfaces as a decode error, not a misrendered card.
func DecodeState(variant map[string]struct{}) (core.OfferState, error) {
	if len(variant) != 1 {
		return 0, errors.Errorf("state: variant encodes %d keys, want exactly 1", len(variant))
	}
	for name := range variant {
		state, ok := stateByVariant[name]
		if !ok {
			return 0, errors.Errorf("state: unknown variant %q", name)
		}
		return state, nil
	}
	return 0, errors.New("state: unreachable")
}

// DecodeBidInfo converts a raw bid history.
func DecodeBidInfo(raw RawBidInfo) (core.BidInfo, error) {
	bids := make([]core.Bid, 0, len(raw.Bids))
	for i, rawBid := range raw.Bids {
		bid, err := decodeBid(rawBid)
		if err != nil {
			return core.BidInfo{}, errors.Wrapf(err, "bids[%d]", i)
		}
		bids = append(bids, bid)
	}

	info := core.BidInfo{Bids: bids}
	switch len(raw.HighestBid) {
	case 0:
	case 1:
		highest, err := decodeBid(raw.HighestBid[0])
		if err != nil {
			return core.BidInfo{}, errors.Wrap(err, "highest_bid")
		}
		info.HighestBid = &highest
	default:
		return core.BidInfo{}, errors.Errorf("highest_bid: optional encodes %d values, want 0 or 1", len(raw.HighestBid))
	}
	return info, nil
}

func decodeBid(raw RawBid) (core.Bid, error) {
	amount, err := parseAmount("amount", raw.Amount)
	if err != nil {
		return core.Bid{}, err
	}
	if raw.Bidder == "" {
		return core.Bid{}, errors.New("bidder: empty")
	}
	return core.Bid{Amount: amount, Bidder: raw.Bidder}, nil
}

// DecodeTokenInfo converts raw token-ledger metadata.
func DecodeTokenInfo(raw RawTokenInfo) (core.TokenInfo, error) {
	fee, err := optAmount("fee", raw.Fee)
	if err != nil {
		return core.TokenInfo{}, err
	}
	return core.TokenInfo{Decimals: raw.Decimals, Fee: fee, Symbol: raw.Symbol}, nil
}

// DecodePriceQuote converts a raw quote. A present quote must be a positive
// decimal; zero or negative quotes from the price service are malformed, and
// passing them on would render fake prices.
func DecodePriceQuote(raw RawPriceQuote) (core.PriceQuote, error) {
	switch len(raw.USDPerToken) {
	case 0:
		return core.PriceQuote{}, nil
	case 1:
		value, err := decimal.NewFromString(raw.USDPerToken[0])
		if err != nil {
			return core.PriceQuote{}, errors.Wrap(err, "usd_per_token")
		}
		if value.Sign() <= 0 {
			return core.PriceQuote{}, errors.Errorf("usd_per_token: not a positive price (%s)", value.String())
		}
		return core.PriceQuote{USDPerToken: &value}, nil
	default:
		return core.PriceQuote{}, errors.Errorf("usd_per_token: optional encodes %d values, want 0 or 1", len(raw.USDPerToken))
	}
}

// optAmount decodes a Candid optional natural: an empty array is absent, a
// single element is a base-10 amount string.
func optAmount(field string, values []string) (*big.Int, error) {
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return parseAmount(field, values[0])
	default:
		return nil, errors.Errorf("%s: optional encodes %d values, want 0 or 1", field, len(values))
	}
}

func parseAmount(field, value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, errors.Errorf("%s: malformed amount %q", field, value)
	}
	if amount.Sign() < 0 {
		return nil, errors.Errorf("%s: negative amount %q", field, value)
	}
	return amount, nil
}

func optUint64(field string, values []uint64) (*uint64, error) {
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		value := values[0]
		return &value, nil
	default:
		return nil, errors.Errorf("%s: optional encodes %d values, want 0 or 1", field, len(values))
	}
}

// optTimestamp decodes an optional canister timestamp in nanoseconds since
// the Unix epoch.
func optTimestamp(field string, values []uint64) (*time.Time, error) {
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		nanos := values[0]
		if nanos > uint64(1<<63-1) {
			return nil, errors.Errorf("%s: timestamp %d out of range", field, nanos)
		}
		ts := time.Unix(0, int64(nanos)).UTC()
		return &ts, nil
	default:
		return nil, errors.Errorf("%s: optional encodes %d values, want 0 or 1", field, len(values))
	}
}
