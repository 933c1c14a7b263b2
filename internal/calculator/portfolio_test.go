package calculator

import (
	"math"
	"testing"

	"CoinPulse/internal/model"
)

func closeTo(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestSummarize_Example(t *testing.T) {
	positions := []model.Position{{CoinID: "bitcoin", Amount: 0.5, BuyPrice: 42000}}
	coins := []model.Coin{{ID: "bitcoin", Price: 67000}}

	s := Summarize(positions, coins)
	if len(s.Positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(s.Positions))
	}
	p := s.Positions[0]
	if p.CurrentValue != 33500 {
		t.Errorf("current value = %v, want 33500", p.CurrentValue)
	}
	if p.InvestedValue != 21000 {
		t.Errorf("invested value = %v, want 21000", p.InvestedValue)
	}
	if p.PnL != 12500 {
		t.Errorf("pnl = %v, want 12500", p.PnL)
	}
	if p.PnLPercent == nil || math.Abs(*p.PnLPercent-59.5238095238) > 1e-6 {
		t.Errorf("pnl percent = %v, want ~59.52", p.PnLPercent)
	}
	if !p.PriceKnown || p.Price != 67000 {
		t.Errorf("expected known price 67000, got %+v", p)
	}
}

func TestSummarize_MissingCoinContributesInvestedLoss(t *testing.T) {
	positions := []model.Position{
		{CoinID: "bitcoin", Amount: 0.5, BuyPrice: 42000},
		{CoinID: "ethereum", Amount: 3.2, BuyPrice: 2800},
	}
	coins := []model.Coin{{ID: "bitcoin", Price: 67000}}

	s := Summarize(positions, coins)
	eth := s.Positions[1]
	if eth.PriceKnown || eth.CurrentValue != 0 {
		t.Errorf("missing coin should be worth 0, got %+v", eth)
	}
	if !closeTo(eth.PnL, -8960) {
		t.Errorf("missing coin pnl = %v, want -8960", eth.PnL)
	}
	if !closeTo(s.TotalValue, 33500) {
		t.Errorf("total value = %v, want 33500", s.TotalValue)
	}
	if !closeTo(s.TotalPnL, 12500-8960) {
		t.Errorf("total pnl = %v, want %v", s.TotalPnL, 12500-8960)
	}
}

func TestSummarize_TotalsMatchPerPositionSums(t *testing.T) {
	coins := []model.Coin{
		{ID: "a", Price: 0.1},
		{ID: "b", Price: 1234.5678},
		{ID: "c", Price: 0.000031},
	}
	positions := []model.Position{
		{CoinID: "a", Amount: 3, BuyPrice: 0.2},
		{CoinID: "b", Amount: 0.123, BuyPrice: 1000},
		{CoinID: "c", Amount: 1e7, BuyPrice: 0.00002},
		{CoinID: "gone", Amount: 2, BuyPrice: 10},
		{CoinID: "free", Amount: 5, BuyPrice: 0},
	}
	s := Summarize(positions, coins)

	var sumValue, sumPnL float64
	for _, p := range s.Positions {
		sumValue += p.CurrentValue
		sumPnL += p.PnL
	}
	if !closeTo(s.TotalValue, sumValue) {
		t.Errorf("total value %v != sum %v", s.TotalValue, sumValue)
	}
	if !closeTo(s.TotalPnL, sumPnL) {
		t.Errorf("total pnl %v != sum %v", s.TotalPnL, sumPnL)
	}
	if s.Positions[4].PnLPercent != nil {
		t.Errorf("zero invested must leave pnl percent undefined, got %v", *s.Positions[4].PnLPercent)
	}
}

func TestSummarize_NoPositions(t *testing.T) {
	s := Summarize(nil, []model.Coin{{ID: "a", Price: 1}})
	if s.TotalValue != 0 || s.TotalPnL != 0 || len(s.Positions) != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
}

func TestPnLPercent_ZeroInvestedIsUndefined(t *testing.T) {
	if _, ok := PnLPercent(10, 0); ok {
		t.Error("expected undefined percent for zero invested")
	}
	pct, ok := PnLPercent(12500, 21000)
	if !ok || math.Abs(pct-59.5238095238) > 1e-6 {
		t.Errorf("unexpected percent %v (ok=%v)", pct, ok)
	}
}

func TestPositionValues(t *testing.T) {
	p := model.Position{CoinID: "bitcoin", Amount: 0.5, BuyPrice: 42000}
	if v := CurrentValue(p, model.Coin{ID: "bitcoin", Price: 67000}, true); v != 33500 {
		t.Errorf("current value = %v", v)
	}
	if v := CurrentValue(p, model.Coin{}, false); v != 0 {
		t.Errorf("missing coin current value = %v", v)
	}
	if v := InvestedValue(p); v != 21000 {
		t.Errorf("invested value = %v", v)
	}
	s := SummarizePosition(p, model.Coin{ID: "bitcoin", Price: 40000}, true)
	if s.PnL != -1000 {
		t.Errorf("pnl = %v, want -1000", s.PnL)
	}
}
