package collector

import (
	"context"
	"fmt"

	"CoinPulse/internal/model"
)

// Collector orchestrates fetching and normalization for both feeds.
type Collector struct {
	Fetcher  Fetcher
	Currency string
	PerPage  int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, currency string, perPage int) *Collector {
	return &Collector{Fetcher: fetcher, Currency: currency, PerPage: perPage}
}

// CollectMarkets fetches and normalizes the market page.
func (c *Collector) CollectMarkets(ctx context.Context) ([]model.Coin, error) {
	raws, err := c.Fetcher.FetchMarkets(ctx, MarketQuery{Currency: c.Currency, PerPage: c.PerPage})
	if err != nil {
		return nil, err
	}
	coins, err := NormalizeMarkets(raws)
	if err != nil {
		return nil, fmt.Errorf("normalize markets: %w", err)
	}
	return coins, nil
}

// CollectGlobal fetches and normalizes the global aggregates.
func (c *Collector) CollectGlobal(ctx context.Context) (*model.GlobalStats, error) {
	raw, err := c.Fetcher.FetchGlobal(ctx)
	if err != nil {
		return nil, err
	}
	g, err := NormalizeGlobal(raw, c.Currency)
	if err != nil {
		return nil, fmt.Errorf("normalize global: %w", err)
	}
	return g, nil
}
