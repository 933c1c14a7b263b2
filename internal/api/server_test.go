package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CoinPulse/internal/collector"
	"CoinPulse/internal/dashboard"
	"CoinPulse/internal/model"
	"CoinPulse/internal/scheduler"
	"CoinPulse/internal/watchlist"
)

func f64(v float64) *float64 { return &v }

func testFetcher() *collector.MockFetcher {
	return &collector.MockFetcher{
		Markets: []collector.RawCoin{
			{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: f64(67000), MarketCap: f64(1.3e12),
				PriceChangePercentage24h: f64(1.5)},
			{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: f64(3500), MarketCap: f64(4.2e11),
				PriceChangePercentage24h: f64(4.2)},
		},
		Global: collector.RawGlobal{"data": map[string]any{
			"total_market_cap":      map[string]any{"usd": 2.5e12},
			"total_volume":          map[string]any{"usd": 1e11},
			"market_cap_percentage": map[string]any{"btc": 52.0, "eth": 17.0},
		}},
	}
}

func newTestServer(t *testing.T, f *collector.MockFetcher, apiKey string) *Server {
	t.Helper()
	sched := scheduler.NewScheduler(context.Background(), collector.NewCollector(f, "usd", 50), scheduler.Options{})
	t.Cleanup(sched.Stop)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sched.RefreshNow(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	positions := []model.Position{{CoinID: "bitcoin", Amount: 0.5, BuyPrice: 42000}}
	dash := dashboard.New(sched, watchlist.NewStore(watchlist.DefaultIDs), positions, "usd")
	return NewServer(dash, ":0", apiKey, "")
}

func do(t *testing.T, s *Server, method, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if out != nil && rr.Code < 300 {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v (%s)", path, err, rr.Body.String())
		}
	}
	return rr
}

func TestHandleSnapshot(t *testing.T) {
	s := newTestServer(t, testFetcher(), "")
	var snap model.Snapshot
	rr := do(t, s, http.MethodGet, "/v1/snapshot", &snap)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(snap.Coins) != 2 || snap.State != model.StateReady || snap.Loading {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.Global == nil || snap.Global.BTCDominance != 52 {
		t.Errorf("unexpected global %+v", snap.Global)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestHandleCoins(t *testing.T) {
	s := newTestServer(t, testFetcher(), "")
	var coins []model.Coin
	do(t, s, http.MethodGet, "/v1/coins?sort=change", &coins)
	if len(coins) != 2 || coins[0].ID != "ethereum" {
		t.Errorf("expected ethereum first by change, got %+v", coins)
	}
	do(t, s, http.MethodGet, "/v1/coins?q=BIT", &coins)
	if len(coins) != 1 || coins[0].Symbol != "BTC" {
		t.Errorf("expected only bitcoin, got %+v", coins)
	}
}

func TestHandleCoinDetail(t *testing.T) {
	s := newTestServer(t, testFetcher(), "")
	var detail model.CoinDetail
	rr := do(t, s, http.MethodGet, "/v1/coins/bitcoin", &detail)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if detail.Holding == nil || detail.Holding.PnL != 12500 || !detail.Watchlisted {
		t.Errorf("unexpected detail %+v", detail)
	}
	if rr := do(t, s, http.MethodGet, "/v1/coins/nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	if rr := do(t, s, http.MethodGet, "/v1/coins/nope/sparkline", nil); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	var points []model.Point
	if rr := do(t, s, http.MethodGet, "/v1/coins/bitcoin/sparkline", &points); rr.Code != http.StatusOK || points == nil {
		t.Errorf("expected empty point list, got %d %v", rr.Code, points)
	}
}

func TestHandleWatchlistToggle(t *testing.T) {
	s := newTestServer(t, testFetcher(), "")
	var toggled toggleResponse
	do(t, s, http.MethodPost, "/v1/watchlist/bitcoin/toggle", &toggled)
	if toggled.ID != "bitcoin" || toggled.Watchlisted {
		t.Errorf("expected bitcoin removed, got %+v", toggled)
	}

	var wl watchlistResponse
	do(t, s, http.MethodGet, "/v1/watchlist", &wl)
	if len(wl.Coins) != 1 || wl.Coins[0].ID != "ethereum" {
		t.Errorf("expected only ethereum watched in market, got %+v", wl.Coins)
	}
	if len(wl.IDs) != 2 {
		t.Errorf("expected cardano and ethereum ids, got %v", wl.IDs)
	}
	if rr := do(t, s, http.MethodGet, "/v1/watchlist/bitcoin/toggle", nil); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET toggle, got %d", rr.Code)
	}
}

func TestHandlePortfolio(t *testing.T) {
	s := newTestServer(t, testFetcher(), "")
	var summary model.PortfolioSummary
	do(t, s, http.MethodGet, "/v1/portfolio", &summary)
	if summary.TotalValue != 33500 || summary.TotalInvested != 21000 || summary.TotalPnL != 12500 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if p := summary.Positions[0].PnLPercent; p == nil || *p < 59.52 || *p > 59.53 {
		t.Errorf("unexpected pnl percent %v", p)
	}
}

func TestHandleRefresh(t *testing.T) {
	f := testFetcher()
	s := newTestServer(t, f, "")

	if rr := do(t, s, http.MethodPost, "/v1/refresh", nil); rr.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rr.Code)
	}

	f.SetMarkets(nil, collector.ErrNetworkFailure)
	var resp refreshResponse
	rr := do(t, s, http.MethodPost, "/v1/refresh?wait=true", &resp)
	if rr.Code != http.StatusOK || resp.Snapshot == nil {
		t.Fatalf("expected snapshot, got %d %s", rr.Code, rr.Body.String())
	}
	if len(resp.Snapshot.Coins) != 2 {
		t.Errorf("failed refresh should keep previous coins: %+v", resp.Snapshot)
	}

	var health healthResponse
	do(t, s, http.MethodGet, "/health", &health)
	if health.Status != "degraded" || health.Feeds[0].LastErrorKind != "network" {
		t.Errorf("unexpected health %+v", health)
	}
}

func TestHandleRefresh_WaitIsBounded(t *testing.T) {
	hang := make(chan struct{})
	f := testFetcher()
	markets := f.Markets
	f.MarketsFunc = func(ctx context.Context, call int) ([]collector.RawCoin, error) {
		if call == 1 {
			return markets, nil
		}
		select {
		case <-hang:
		case <-ctx.Done():
		}
		return nil, collector.ErrNetworkFailure
	}
	s := newTestServer(t, f, "")
	t.Cleanup(func() { close(hang) })
	s.refreshTimeout = 50 * time.Millisecond

	start := time.Now()
	rr := do(t, s, http.MethodPost, "/v1/refresh?wait=true", nil)
	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d %s", rr.Code, rr.Body.String())
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("wait was not bounded: %v", elapsed)
	}
}

func TestHealth_OK(t *testing.T) {
	s := newTestServer(t, testFetcher(), "secret")
	var health healthResponse
	rr := do(t, s, http.MethodGet, "/health", &health)
	if rr.Code != http.StatusOK || health.Status != "ok" || len(health.Feeds) != 2 {
		t.Errorf("unexpected health %d %+v", rr.Code, health)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, testFetcher(), "secret123")
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong key", "Bearer wrong_key", http.StatusUnauthorized},
		{"no bearer prefix", "secret123", http.StatusUnauthorized},
		{"correct key", "Bearer secret123", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/portfolio", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, testFetcher(), "secret123")
	req := httptest.NewRequest(http.MethodOptions, "/v1/watchlist/bitcoin/toggle", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Errorf("unexpected allow methods %q", got)
	}
}
