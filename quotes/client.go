package quotes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultInterval matches the hub's refresh cadence for price quotes.
const DefaultInterval = 60 * time.Second

// Client polls an HTTP quote endpoint. The endpoint returns a JSON object
// mapping token ledger IDs to USD decimal strings:
//
//	{"fi3zi-fyaaa-aaaaq-aachq-cai": "3.25", "ryjl3-tyaaa-aaaaa-aaaba-cai": "12.80"}
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	interval   time.Duration
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithInterval overrides the polling cadence.
func WithInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.interval = interval
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient builds a quote client for the given endpoint URL.
func NewClient(endpoint string, options ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     zap.NewNop(),
		interval:   DefaultInterval,
		now:        time.Now,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Fetch retrieves a fresh snapshot from the endpoint. Entries with
// malformed or non-positive prices are dropped and logged; the rest of the
// snapshot stays usable, since one broken token should not blank out USD
// figures for every card.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build quote request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch quotes")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("close quote response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("quote endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read quote response")
	}

	var prices map[string]string
	if err := json.Unmarshal(body, &prices); err != nil {
		return nil, errors.Wrap(err, "parse quote response")
	}

	fetchedAt := c.now()
	byToken := make(map[string]Quote, len(prices))
	for ledger, price := range prices {
		usd, err := decimal.NewFromString(price)
		if err != nil {
			c.logger.Warn("dropping malformed quote",
				zap.String("ledger", ledger), zap.String("price", price), zap.Error(err))
			continue
		}
		if usd.Sign() <= 0 {
			c.logger.Warn("dropping non-positive quote",
				zap.String("ledger", ledger), zap.String("price", price))
			continue
		}
		byToken[ledger] = Quote{USDPerToken: usd, FetchedAt: fetchedAt}
	}

	snapshot := NewSnapshot(fetchedAt, byToken)
	c.logger.Debug("fetched quote snapshot",
		zap.String("snapshot_id", snapshot.ID.String()), zap.Int("tokens", snapshot.Len()))
	return snapshot, nil
}

// Poll fetches on the configured cadence and hands each snapshot to handle.
// The first fetch happens immediately. Fetch failures are logged and the
// loop keeps going with the previous snapshot still in the caller's hands.
// Returns when ctx is done.
func (c *Client) Poll(ctx context.Context, handle func(*Snapshot)) error {
	fetchOnce := func() {
		snapshot, err := c.Fetch(ctx)
		if err != nil {
			c.logger.Warn("quote poll failed", zap.Error(err))
			return
		}
		handle(snapshot)
	}

	fetchOnce()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fetchOnce()
		}
	}
}
