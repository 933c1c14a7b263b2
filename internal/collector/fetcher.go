package collector

import "context"

// MarketQuery selects the market page to fetch.
type MarketQuery struct {
	Currency string // fiat code in provider form, e.g. "usd"
	PerPage  int
}

// RawCoin is one provider market record as decoded off the wire. Pointer
// fields distinguish absent/null from zero.
type RawCoin struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	TotalVolume              *float64 `json:"total_volume"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	SparklineIn7d            *struct {
		Price []*float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

// RawGlobal is the decoded global-stats document.
type RawGlobal map[string]any

// Fetcher defines the interface for fetching raw market data.
type Fetcher interface {
	FetchMarkets(ctx context.Context, q MarketQuery) ([]RawCoin, error)
	FetchGlobal(ctx context.Context) (RawGlobal, error)
	Name() string
}
