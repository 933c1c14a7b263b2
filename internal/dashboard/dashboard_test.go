package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"CoinPulse/internal/model"
	"CoinPulse/internal/watchlist"
)

type fakeSource struct {
	snap      model.Snapshot
	health    []model.FeedStatus
	triggered int
	refreshed int
}

func (f *fakeSource) Snapshot() model.Snapshot   { return f.snap }
func (f *fakeSource) TriggerRefresh()            { f.triggered++ }
func (f *fakeSource) Health() []model.FeedStatus { return f.health }

func (f *fakeSource) RefreshNow(context.Context) error {
	f.refreshed++
	return nil
}

func testCoins() []model.Coin {
	return []model.Coin{
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Logo: "B", Price: 67000, Change24h: 1.5, MarketCap: 1.3e12,
			Sparkline: []float64{60000, 67000, 63500}},
		{ID: "ethereum", Name: "Ethereum", Symbol: "ETH", Logo: "E", Price: 3500, Change24h: 4.2, MarketCap: 4.2e11},
		{ID: "solana", Name: "Solana", Symbol: "SOL", Logo: "S", Price: 150, Change24h: -2.1, MarketCap: 7e10},
		{ID: "cardano", Name: "Cardano", Symbol: "ADA", Logo: "A", Price: 0.45, Change24h: 0.3, MarketCap: 1.6e10},
	}
}

func newTestDashboard() (*Dashboard, *fakeSource) {
	src := &fakeSource{
		snap: model.Snapshot{Coins: testCoins(), State: model.StateReady, LastUpdated: time.Now()},
		health: []model.FeedStatus{
			{Feed: "markets", LastSuccess: time.Now()},
			{Feed: "global", LastSuccess: time.Now()},
		},
	}
	positions := []model.Position{
		{CoinID: "bitcoin", Amount: 0.5, BuyPrice: 42000},
		{CoinID: "ethereum", Amount: 3.2, BuyPrice: 2800},
	}
	return New(src, watchlist.NewStore([]string{"cardano", "bitcoin", "dogecoin"}), positions, "usd"), src
}

func ids(coins []model.Coin) []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.ID
	}
	return out
}

func TestWatchlistedCoins_SnapshotOrderSkipsDangling(t *testing.T) {
	d, _ := newTestDashboard()
	got := strings.Join(ids(d.WatchlistedCoins()), ",")
	if got != "bitcoin,cardano" {
		t.Errorf("expected bitcoin,cardano got %s", got)
	}
	if !d.IsWatchlisted("dogecoin") {
		t.Error("dangling id should stay in the watchlist")
	}
}

func TestToggleWatchlist(t *testing.T) {
	d, _ := newTestDashboard()
	if !d.ToggleWatchlist("solana") || !d.IsWatchlisted("solana") {
		t.Fatal("expected solana to be added")
	}
	if got := strings.Join(ids(d.WatchlistedCoins()), ","); got != "bitcoin,solana,cardano" {
		t.Errorf("unexpected watchlisted coins %s", got)
	}
	if d.ToggleWatchlist("solana") || d.IsWatchlisted("solana") {
		t.Error("expected solana to be removed")
	}
}

func TestFilteredSortedCoins(t *testing.T) {
	d, _ := newTestDashboard()
	if got := strings.Join(ids(d.FilteredSortedCoins("", "change")), ","); got != "ethereum,bitcoin,cardano,solana" {
		t.Errorf("sort by change: %s", got)
	}
	if got := strings.Join(ids(d.FilteredSortedCoins("so", "bogus")), ","); got != "solana" {
		t.Errorf("filter by term: %s", got)
	}
}

func TestPortfolioSummary(t *testing.T) {
	d, _ := newTestDashboard()
	s := d.PortfolioSummary()
	if len(s.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(s.Positions))
	}
	// 0.5*67000 + 3.2*3500 = 33500 + 11200
	if s.TotalValue != 44700 {
		t.Errorf("expected total value 44700, got %v", s.TotalValue)
	}
	if s.Positions[0].PnL != 12500 {
		t.Errorf("expected bitcoin pnl 12500, got %v", s.Positions[0].PnL)
	}
}

func TestScaledSparkline(t *testing.T) {
	d, _ := newTestDashboard()
	pts, ok := d.ScaledSparkline("bitcoin")
	if !ok || len(pts) != 3 {
		t.Fatalf("expected 3 points, got %v %v", pts, ok)
	}
	if pts[0].Y != 40 || pts[1].Y != 5 || pts[2].X != 100 {
		t.Errorf("unexpected points %+v", pts)
	}
	if pts, ok := d.ScaledSparkline("ethereum"); !ok || len(pts) != 0 {
		t.Errorf("expected empty sparkline for coin without samples, got %v", pts)
	}
	if _, ok := d.ScaledSparkline("unknown"); ok {
		t.Error("expected not found")
	}
}

func TestCoinDetail(t *testing.T) {
	d, _ := newTestDashboard()
	detail, ok := d.CoinDetail("bitcoin")
	if !ok {
		t.Fatal("expected bitcoin detail")
	}
	if !detail.Watchlisted || detail.Holding == nil || detail.Holding.PnL != 12500 {
		t.Errorf("unexpected detail %+v", detail)
	}
	if len(detail.Bars) != 3 || detail.Bars[1] != 100 {
		t.Errorf("unexpected bars %v", detail.Bars)
	}

	sol, _ := d.CoinDetail("solana")
	if sol.Holding != nil || sol.Watchlisted {
		t.Errorf("solana should have no holding and not be watched: %+v", sol)
	}
	if _, ok := d.CoinDetail("unknown"); ok {
		t.Error("expected not found")
	}
}

func TestTriggerManualRefresh(t *testing.T) {
	d, src := newTestDashboard()
	d.TriggerManualRefresh()
	if src.triggered != 1 {
		t.Errorf("expected one trigger, got %d", src.triggered)
	}
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		cmd  string
		want string
	}{
		{"/portfolio", "Total value: $44,700.00"},
		{"/watchlist", "Watchlist</b> (3)"},
		{"/top price", "1. B <b>BTC</b> $67,000.00"},
		{"/top", "Top by market_cap"},
		{"/find ether", "ETH"},
		{"/find", "usage"},
		{"/status", "READY"},
		{"/status@coinpulse_bot", "READY"},
		{"hello", "Available commands"},
		{"", "Available commands"},
	}
	for _, tt := range tests {
		d, _ := newTestDashboard()
		if got := d.HandleCommand(tt.cmd); !strings.Contains(got, tt.want) {
			t.Errorf("HandleCommand(%q) = %q, want it to contain %q", tt.cmd, got, tt.want)
		}
	}
}

func TestHandleCommand_WatchAndRefresh(t *testing.T) {
	d, src := newTestDashboard()
	if got := d.HandleCommand("/watch Solana"); !strings.Contains(got, "added") {
		t.Errorf("unexpected reply %q", got)
	}
	if !d.IsWatchlisted("solana") {
		t.Error("expected solana watched")
	}
	if got := d.HandleCommand("/watch solana"); !strings.Contains(got, "removed") {
		t.Errorf("unexpected reply %q", got)
	}
	d.HandleCommand("/refresh")
	if src.refreshed != 1 {
		t.Errorf("expected one blocking refresh, got %d", src.refreshed)
	}
}
