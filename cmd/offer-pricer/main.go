package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sneed-hub/marketpricing/core"
	"github.com/sneed-hub/marketpricing/marketapi"
	"github.com/sneed-hub/marketpricing/validation"
)

func main() {
	var (
		snapshotInput  = flag.String("snapshot", "", "Offer snapshot (file path or inline JSON)")
		estimatedValue = flag.String("estimated-value", "", "Estimated asset value in USD for the deal-quality check (optional)")
		nowInput       = flag.String("now", "", "Evaluation instant, RFC3339 (default: current time)")
		outputFormat   = flag.String("format", "text", "Output format: text or json")
		help           = flag.Bool("help", false, "Show usage information")
	)

	flag.Parse()

	if *help {
		showUsage()
		os.Exit(0)
	}

	if *snapshotInput == "" {
		showUsage()
		fmt.Fprintf(os.Stderr, "\nError: --snapshot is required\n")
		os.Exit(1)
	}

	data, err := readInput(*snapshotInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading snapshot: %v\n", err)
		os.Exit(2)
	}

	raw, err := marketapi.DecodeSnapshot(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing snapshot: %v\n", err)
		os.Exit(2)
	}

	result, err := validation.ValidateSnapshot(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation error: %v\n", err)
		os.Exit(2)
	}
	if !result.IsValid() {
		fmt.Fprintln(os.Stderr, "Snapshot failed validation:")
		for _, detail := range result.ValidationDetails {
			fmt.Fprintf(os.Stderr, "  - %s\n", detail)
		}
		os.Exit(1)
	}

	snapshot, err := raw.Decode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding snapshot: %v\n", err)
		os.Exit(2)
	}

	now := time.Now()
	if *nowInput != "" {
		now, err = time.Parse(time.RFC3339, *nowInput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing --now: %v\n", err)
			os.Exit(2)
		}
	}

	var estimated *decimal.Decimal
	if *estimatedValue != "" {
		value, err := decimal.NewFromString(*estimatedValue)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing --estimated-value: %v\n", err)
			os.Exit(2)
		}
		estimated = &value
	}

	report := buildReport(snapshot, estimated, now)

	if *outputFormat == "json" {
		outputJSON(report)
	} else {
		outputText(report, snapshot.Token.Symbol)
	}
}

// pricingReport is everything an offer card displays, computed from one
// snapshot.
type pricingReport struct {
	OfferID           uint64 `json:"offer_id"`
	State             string `json:"state"`
	LifecycleCategory string `json:"lifecycle_category"`
	BannerLabel       string `json:"banner_label,omitempty"`
	PastExpiration    bool   `json:"past_expiration"`

	Priced         bool   `json:"priced"`
	BidCount       int    `json:"bid_count"`
	HighestBid     string `json:"highest_bid,omitempty"`
	HighestBidder  string `json:"highest_bidder,omitempty"`
	MinimumNextBid string `json:"minimum_next_bid"`
	BuyoutPrice    string `json:"buyout_price,omitempty"`
	BuyoutOnly     bool   `json:"buyout_only"`

	MinimumNextBidUSD string `json:"minimum_next_bid_usd,omitempty"`
	BuyoutPriceUSD    string `json:"buyout_price_usd,omitempty"`
	EffectivePriceUSD string `json:"effective_price_usd,omitempty"`
	GoodDeal          *bool  `json:"good_deal,omitempty"`
}

func buildReport(snapshot *marketapi.Snapshot, estimated *decimal.Decimal, now time.Time) *pricingReport {
	offer, bids, token, quote := snapshot.Offer, snapshot.Bids, snapshot.Token, snapshot.Quote

	minimumNext := core.MinimumNextBid(offer, bids, token)

	report := &pricingReport{
		OfferID:           offer.ID,
		State:             offer.State.String(),
		LifecycleCategory: offer.State.LifecycleCategory().String(),
		BannerLabel:       offer.State.BannerLabel(),
		PastExpiration:    core.IsPastExpiration(offer.Expiration, now),
		Priced:            offer.HasPrice(),
		BidCount:          len(bids.Bids),
		MinimumNextBid:    minimumNext.String(),
		BuyoutOnly:        core.IsBuyoutOnly(offer, minimumNext),
	}

	if bids.HighestBid != nil {
		report.HighestBid = bids.HighestBid.Amount.String()
		report.HighestBidder = bids.HighestBid.Bidder
	}
	if offer.BuyoutPrice != nil {
		report.BuyoutPrice = offer.BuyoutPrice.String()
		if usd, ok := core.ConvertToUSD(offer.BuyoutPrice, token.Decimals, quote); ok {
			report.BuyoutPriceUSD = usd.String()
		}
	}
	if usd, ok := core.ConvertToUSD(minimumNext, token.Decimals, quote); ok {
		report.MinimumNextBidUSD = usd.String()
	}
	if effective, ok := core.EffectivePriceUSD(offer, bids, token, quote); ok {
		report.EffectivePriceUSD = effective.String()
		if estimated != nil {
			goodDeal := core.IsGoodDeal(estimated, &effective)
			report.GoodDeal = &goodDeal
		}
	}

	return report
}

func outputJSON(report *pricingReport) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
		os.Exit(2)
	}
}

func outputText(report *pricingReport, symbol string) {
	fmt.Printf("Offer #%d (%s)\n", report.OfferID, report.State)
	fmt.Printf("  Lifecycle:        %s\n", report.LifecycleCategory)
	if report.BannerLabel != "" {
		fmt.Printf("  Banner:           %s\n", report.BannerLabel)
	}
	if report.PastExpiration {
		fmt.Printf("  Past expiration:  yes\n")
	}

	if !report.Priced {
		fmt.Printf("  Pricing:          not configured\n")
	} else {
		fmt.Printf("  Bids placed:      %d\n", report.BidCount)
		if report.HighestBid != "" {
			fmt.Printf("  Highest bid:      %s %s (%s)\n", report.HighestBid, symbol, report.HighestBidder)
		}
		if report.BuyoutOnly {
			fmt.Printf("  Buyout only:      %s %s%s\n", report.BuyoutPrice, symbol, usdSuffix(report.BuyoutPriceUSD))
		} else {
			fmt.Printf("  Minimum next bid: %s %s%s\n", report.MinimumNextBid, symbol, usdSuffix(report.MinimumNextBidUSD))
			if report.BuyoutPrice != "" {
				fmt.Printf("  Buyout price:     %s %s%s\n", report.BuyoutPrice, symbol, usdSuffix(report.BuyoutPriceUSD))
			}
		}
		if report.EffectivePriceUSD != "" {
			fmt.Printf("  Effective price:  $%s\n", report.EffectivePriceUSD)
		}
		if report.GoodDeal != nil {
			fmt.Printf("  Good deal:        %t\n", *report.GoodDeal)
		}
	}
}

func usdSuffix(usd string) string {
	if usd == "" {
		return ""
	}
	return fmt.Sprintf(" ($%s)", usd)
}

// readInput accepts either a file path or an inline JSON string, matching
// how the hub's other inspection tools take their inputs.
func readInput(input string) ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(input), "{") {
		return []byte(input), nil
	}
	return os.ReadFile(input)
}

func showUsage() {
	fmt.Println("Sneed Hub Offer Pricer")
	fmt.Println()
	fmt.Println("Computes the pricing fields an offer card displays: minimum next bid,")
	fmt.Println("buyout-only state, USD figures, deal quality, and lifecycle category.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  offer-pricer --snapshot <json> [options]")
	fmt.Println()
	fmt.Println("Required Flags:")
	fmt.Println("  --snapshot <json>          Offer snapshot (file path, JSON or CBOR, or inline JSON)")
	fmt.Println()
	fmt.Println("Optional Flags:")
	fmt.Println("  --estimated-value <usd>    Estimated asset value for the deal-quality check")
	fmt.Println("  --now <rfc3339>            Evaluation instant (default: current time)")
	fmt.Println("  --format <text|json>       Output format (default: text)")
	fmt.Println("  --help                     Show this help message")
	fmt.Println()
	fmt.Println("Snapshot format:")
	fmt.Println("  {")
	fmt.Println("    \"offer\": {")
	fmt.Println("      \"id\": 7,")
	fmt.Println("      \"price_token_ledger\": \"fi3zi-fyaaa-aaaaq-aachq-cai\",")
	fmt.Println("      \"min_bid_price\": [\"100\"],")
	fmt.Println("      \"buyout_price\": [\"500\"],")
	fmt.Println("      \"state\": {\"Active\": null}")
	fmt.Println("    },")
	fmt.Println("    \"bids\": {\"bids\": [], \"highest_bid\": []},")
	fmt.Println("    \"token\": {\"decimals\": 8, \"fee\": [\"10\"], \"symbol\": \"SNEED\"},")
	fmt.Println("    \"quote\": {\"usd_per_token\": [\"3.25\"]}")
	fmt.Println("  }")
	fmt.Println()
	fmt.Println("Exit codes: 0 = ok, 1 = invalid snapshot, 2 = input/parse error")
}
