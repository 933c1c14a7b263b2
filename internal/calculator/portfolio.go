package calculator

import (
	"CoinPulse/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CurrentValue is price × amount; a coin missing from the market is worth 0.
func CurrentValue(p model.Position, coin model.Coin, found bool) float64 {
	return currentValue(p, coin, found).InexactFloat64()
}

// InvestedValue is buy price × amount.
func InvestedValue(p model.Position) float64 {
	return investedValue(p).InexactFloat64()
}

// PnLPercent returns pnl / invested × 100. ok is false when invested is zero
// and the percentage is undefined.
func PnLPercent(pnl, invested float64) (pct float64, ok bool) {
	if invested == 0 {
		return 0, false
	}
	return decimal.NewFromFloat(pnl).Div(decimal.NewFromFloat(invested)).Mul(hundred).InexactFloat64(), true
}

// SummarizePosition values one position against the coin, if present.
func SummarizePosition(p model.Position, coin model.Coin, found bool) model.PositionSummary {
	cur := currentValue(p, coin, found)
	inv := investedValue(p)
	return summary(p, coin, found, cur, inv)
}

// Summarize values every position against the current coins. Positions whose
// coin is absent keep their invested value, so their loss shows in the totals.
func Summarize(positions []model.Position, coins []model.Coin) model.PortfolioSummary {
	index := make(map[string]model.Coin, len(coins))
	for _, c := range coins {
		index[c.ID] = c
	}

	out := model.PortfolioSummary{Positions: make([]model.PositionSummary, 0, len(positions))}
	totalValue, totalInvested := decimal.Zero, decimal.Zero
	for _, p := range positions {
		coin, found := index[p.CoinID]
		cur := currentValue(p, coin, found)
		inv := investedValue(p)
		totalValue = totalValue.Add(cur)
		totalInvested = totalInvested.Add(inv)
		out.Positions = append(out.Positions, summary(p, coin, found, cur, inv))
	}
	out.TotalValue = totalValue.InexactFloat64()
	out.TotalInvested = totalInvested.InexactFloat64()
	out.TotalPnL = totalValue.Sub(totalInvested).InexactFloat64()
	return out
}

func summary(p model.Position, coin model.Coin, found bool, cur, inv decimal.Decimal) model.PositionSummary {
	pnl := cur.Sub(inv)
	s := model.PositionSummary{
		Position:      p,
		PriceKnown:    found,
		CurrentValue:  cur.InexactFloat64(),
		InvestedValue: inv.InexactFloat64(),
		PnL:           pnl.InexactFloat64(),
	}
	if found {
		s.Price = coin.Price
	}
	if !inv.IsZero() {
		pct := pnl.Div(inv).Mul(hundred).InexactFloat64()
		s.PnLPercent = &pct
	}
	return s
}

func currentValue(p model.Position, coin model.Coin, found bool) decimal.Decimal {
	if !found {
		return decimal.Zero
	}
	return decimal.NewFromFloat(coin.Price).Mul(decimal.NewFromFloat(p.Amount))
}

func investedValue(p model.Position) decimal.Decimal {
	return decimal.NewFromFloat(p.BuyPrice).Mul(decimal.NewFromFloat(p.Amount))
}
