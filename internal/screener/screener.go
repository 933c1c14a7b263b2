package screener

import (
	"sort"
	"strings"

	"CoinPulse/internal/model"
)

// SortKey selects the ordering of a screen.
type SortKey string

const (
	SortMarketCap SortKey = "market_cap"
	SortPrice     SortKey = "price"
	SortChange    SortKey = "change"
)

// Keys lists the recognised sort keys.
var Keys = []SortKey{SortMarketCap, SortPrice, SortChange}

// Matches reports whether name or symbol contains term, ignoring case.
func Matches(c model.Coin, term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Name), t) ||
		strings.Contains(strings.ToLower(c.Symbol), t)
}

// Filter keeps the coins matching term, preserving input order.
func Filter(coins []model.Coin, term string) []model.Coin {
	out := make([]model.Coin, 0, len(coins))
	for _, c := range coins {
		if Matches(c, term) {
			out = append(out, c)
		}
	}
	return out
}

// Screen filters by term, then sorts descending by key. Unknown keys keep
// the provider order. Ties keep their relative input order.
func Screen(coins []model.Coin, term string, key SortKey) []model.Coin {
	out := Filter(coins, term)
	metric := metricFor(key)
	if metric == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return metric(out[i]) > metric(out[j])
	})
	return out
}

func metricFor(key SortKey) func(model.Coin) float64 {
	switch key {
	case SortMarketCap:
		return func(c model.Coin) float64 { return c.MarketCap }
	case SortPrice:
		return func(c model.Coin) float64 { return c.Price }
	case SortChange:
		return func(c model.Coin) float64 { return c.Change24h }
	default:
		return nil
	}
}
