// Package validation checks raw offer snapshots before they reach the
// pricing engine. The engine treats malformed numeric input as a programming
// error and panics; this package is the caller-side gate that turns bad
// canister data into a reviewable result instead.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/sneed-hub/marketpricing/marketapi"
)

// SnapshotValidationResult contains per-section validation results for one
// offer snapshot.
type SnapshotValidationResult struct {
	StructureValid    bool
	OfferValid        bool
	BidsValid         bool
	TokenValid        bool
	QuoteValid        bool
	ValidationDetails []string
}

// IsValid returns true if all snapshot validation checks passed.
func (r *SnapshotValidationResult) IsValid() bool {
	return r.StructureValid && r.OfferValid && r.BidsValid && r.TokenValid && r.QuoteValid
}

var validate = validator.New()

// ValidateSnapshot validates a raw snapshot and reports which sections are
// usable. It verifies:
// - Struct-level shape: required fields present, optional arrays at most one element
// - Offer: parseable non-negative amounts, a recognized single-key state variant
// - Bids: well-formed history and highest bid
// - Token: parseable fee
// - Quote: positive decimal price when present
//
// Returns an error only when validation cannot be performed at all.
func ValidateSnapshot(raw *marketapi.OfferSnapshot) (*SnapshotValidationResult, error) {
	if raw == nil {
		return nil, errors.New("nil snapshot")
	}

	result := &SnapshotValidationResult{}

	result.StructureValid = validateStructure(raw, result)
	result.OfferValid = validateOffer(raw, result)
	result.BidsValid = validateBids(raw, result)
	result.TokenValid = validateToken(raw, result)
	result.QuoteValid = validateQuote(raw, result)

	return result, nil
}

func validateStructure(raw *marketapi.OfferSnapshot, result *SnapshotValidationResult) bool {
	err := validate.Struct(raw)
	if err == nil {
		return true
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return false
	}
	for _, fieldError := range fieldErrors {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("Structure check failed on %s (%s)", fieldError.Namespace(), fieldError.Tag()))
	}
	return false
}

func validateOffer(raw *marketapi.OfferSnapshot, result *SnapshotValidationResult) bool {
	if _, err := marketapi.DecodeOffer(raw.Offer); err != nil {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("Offer record invalid: %v", err))
		return false
	}
	return true
}

func validateBids(raw *marketapi.OfferSnapshot, result *SnapshotValidationResult) bool {
	if _, err := marketapi.DecodeBidInfo(raw.Bids); err != nil {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("Bid history invalid: %v", err))
		return false
	}
	return true
}

func validateToken(raw *marketapi.OfferSnapshot, result *SnapshotValidationResult) bool {
	if _, err := marketapi.DecodeTokenInfo(raw.Token); err != nil {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("Token metadata invalid: %v", err))
		return false
	}
	return true
}

func validateQuote(raw *marketapi.OfferSnapshot, result *SnapshotValidationResult) bool {
	if _, err := marketapi.DecodePriceQuote(raw.Quote); err != nil {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("Price quote invalid: %v", err))
		return false
	}
	return true
}
