package model

// Position is a configured holding. It is never mutated at runtime.
type Position struct {
	CoinID   string  `json:"coin_id" yaml:"coin_id"`
	Amount   float64 `json:"amount" yaml:"amount"`
	BuyPrice float64 `json:"buy_price" yaml:"buy_price"`
}

// PositionSummary is a Position valued against the current market.
type PositionSummary struct {
	Position
	PriceKnown    bool    `json:"price_known"`
	Price         float64 `json:"price"`
	CurrentValue  float64 `json:"current_value"`
	InvestedValue float64 `json:"invested_value"`
	PnL           float64 `json:"pnl"`
	// PnLPercent is nil when InvestedValue is zero.
	PnLPercent *float64 `json:"pnl_percent"`
}

// PortfolioSummary totals every configured position.
type PortfolioSummary struct {
	Positions     []PositionSummary `json:"positions"`
	TotalValue    float64           `json:"total_value"`
	TotalInvested float64           `json:"total_invested"`
	TotalPnL      float64           `json:"total_pnl"`
}
