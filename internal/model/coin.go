package model

// MaxSparklinePoints bounds Coin.Sparkline.
const MaxSparklinePoints = 20

// Coin is the normalized view of one market row.
type Coin struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change_24h"`
	MarketCap float64   `json:"market_cap"`
	Volume    float64   `json:"volume"`
	Sparkline []float64 `json:"sparkline"` // oldest first, at most MaxSparklinePoints
	Image     string    `json:"image,omitempty"`
	Logo      string    `json:"logo"` // glyph used when Image is empty
}

// GlobalStats holds whole-market aggregates in the configured currency.
type GlobalStats struct {
	TotalMarketCap float64 `json:"total_market_cap"`
	Volume24h      float64 `json:"volume_24h"`
	BTCDominance   float64 `json:"btc_dominance"` // percent
	ETHDominance   float64 `json:"eth_dominance"` // percent
}

// FindCoin returns the coin with the given id.
func FindCoin(coins []Coin, id string) (Coin, bool) {
	for _, c := range coins {
		if c.ID == id {
			return c, true
		}
	}
	return Coin{}, false
}
