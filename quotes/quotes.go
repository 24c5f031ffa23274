// Package quotes fetches and snapshots per-token USD price quotes. The
// pricing engine in package core is pure and never fetches anything; callers
// poll here and hand the resulting snapshot in on each render tick.
package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sneed-hub/marketpricing/core"
)

// Quote is one token's USD price at the time it was fetched.
type Quote struct {
	USDPerToken decimal.Decimal
	FetchedAt   time.Time
}

// Stale reports whether the quote is older than maxAge at the given instant.
func (q Quote) Stale(maxAge time.Duration, now time.Time) bool {
	return now.Sub(q.FetchedAt) > maxAge
}

// Snapshot is a consistent set of quotes taken in a single fetch, keyed by
// token ledger ID. The ID ties log lines and rendered cards back to the
// fetch that produced them.
type Snapshot struct {
	ID      uuid.UUID
	TakenAt time.Time
	byToken map[string]Quote
}

// NewSnapshot builds a snapshot from already-fetched quotes.
func NewSnapshot(takenAt time.Time, byToken map[string]Quote) *Snapshot {
	quotes := make(map[string]Quote, len(byToken))
	for ledger, quote := range byToken {
		quotes[ledger] = quote
	}
	return &Snapshot{ID: uuid.New(), TakenAt: takenAt, byToken: quotes}
}

// Len returns the number of tokens quoted in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.byToken)
}

// Lookup returns the engine-ready quote for a token ledger. Tokens without a
// quote get the empty PriceQuote, which the engine reports as "USD
// unavailable" rather than zero.
func (s *Snapshot) Lookup(ledger string) core.PriceQuote {
	quote, ok := s.byToken[ledger]
	if !ok {
		return core.PriceQuote{}
	}
	usd := quote.USDPerToken
	return core.PriceQuote{USDPerToken: &usd}
}

// Get returns the raw quote and whether one exists for the ledger.
func (s *Snapshot) Get(ledger string) (Quote, bool) {
	quote, ok := s.byToken[ledger]
	return quote, ok
}
