// Package dashboard is the read and command surface over the synchronized
// market data: watchlist, portfolio, screening and sparkline views.
package dashboard

import (
	"context"

	"CoinPulse/internal/calculator"
	"CoinPulse/internal/model"
	"CoinPulse/internal/screener"
	"CoinPulse/internal/watchlist"
)

// Source supplies snapshots and refreshes. *scheduler.Scheduler satisfies it.
type Source interface {
	Snapshot() model.Snapshot
	TriggerRefresh()
	RefreshNow(ctx context.Context) error
	Health() []model.FeedStatus
}

// Dashboard joins the current snapshot with the watchlist and portfolio.
type Dashboard struct {
	source    Source
	watchlist *watchlist.Store
	positions []model.Position
	currency  string
	band      calculator.Band
}

// New creates a Dashboard. positions are copied and never modified.
func New(source Source, wl *watchlist.Store, positions []model.Position, currency string) *Dashboard {
	return &Dashboard{
		source:    source,
		watchlist: wl,
		positions: append([]model.Position(nil), positions...),
		currency:  currency,
		band:      calculator.DefaultBand,
	}
}

func (d *Dashboard) Currency() string { return d.currency }

// Snapshot returns the current market view.
func (d *Dashboard) Snapshot() model.Snapshot { return d.source.Snapshot() }

// Health reports per-feed fetch health.
func (d *Dashboard) Health() []model.FeedStatus { return d.source.Health() }

// ToggleWatchlist flips membership of id and reports the new membership.
func (d *Dashboard) ToggleWatchlist(id string) bool { return d.watchlist.Toggle(id) }

func (d *Dashboard) IsWatchlisted(id string) bool { return d.watchlist.Contains(id) }

// Watchlist returns the watched ids, including ones absent from the market.
func (d *Dashboard) Watchlist() []string { return d.watchlist.All() }

// WatchlistedCoins returns watched coins present in the snapshot, in snapshot
// order. Ids with no matching coin are skipped.
func (d *Dashboard) WatchlistedCoins() []model.Coin {
	out := []model.Coin{}
	for _, c := range d.source.Snapshot().Coins {
		if d.watchlist.Contains(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// FilteredSortedCoins filters by term on name or symbol, then sorts by key.
func (d *Dashboard) FilteredSortedCoins(term, key string) []model.Coin {
	return screener.Screen(d.source.Snapshot().Coins, term, screener.SortKey(key))
}

// PortfolioSummary values the configured positions at current prices.
func (d *Dashboard) PortfolioSummary() model.PortfolioSummary {
	return calculator.Summarize(d.positions, d.source.Snapshot().Coins)
}

// ScaledSparkline returns plot points for a coin; ok is false when the coin
// is not in the snapshot.
func (d *Dashboard) ScaledSparkline(id string) ([]model.Point, bool) {
	coin, ok := model.FindCoin(d.source.Snapshot().Coins, id)
	if !ok {
		return nil, false
	}
	return calculator.ScaleSparkline(coin.Sparkline, d.band), true
}

// TriggerManualRefresh requests a refresh without waiting for it.
func (d *Dashboard) TriggerManualRefresh() { d.source.TriggerRefresh() }

// RefreshNow requests a refresh and waits for both feeds.
func (d *Dashboard) RefreshNow(ctx context.Context) error { return d.source.RefreshNow(ctx) }

// CoinDetail bundles a coin with its holding, sparkline and bar chart.
func (d *Dashboard) CoinDetail(id string) (model.CoinDetail, bool) {
	coin, ok := model.FindCoin(d.source.Snapshot().Coins, id)
	if !ok {
		return model.CoinDetail{}, false
	}
	detail := model.CoinDetail{
		Coin:        coin,
		Watchlisted: d.watchlist.Contains(id),
		Sparkline:   calculator.ScaleSparkline(coin.Sparkline, d.band),
		Bars:        calculator.ScaleBars(coin.Sparkline),
	}
	for _, p := range d.positions {
		if p.CoinID == id {
			s := calculator.SummarizePosition(p, coin, true)
			detail.Holding = &s
			break
		}
	}
	return detail, true
}
