package collector

import (
	"context"
	"sync"
)

// MockFetcher returns controllable data for development and testing.
// MarketsFunc and GlobalFunc, when set, take precedence over the fixed values
// and receive the 1-based call number.
type MockFetcher struct {
	mu          sync.Mutex
	Markets     []RawCoin
	MarketsErr  error
	Global      RawGlobal
	GlobalErr   error
	MarketsFunc func(ctx context.Context, call int) ([]RawCoin, error)
	GlobalFunc  func(ctx context.Context, call int) (RawGlobal, error)

	marketCalls int
	globalCalls int
}

func (m *MockFetcher) Name() string { return "mock" }

// SetMarkets replaces the fixed market response.
func (m *MockFetcher) SetMarkets(coins []RawCoin, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Markets, m.MarketsErr = coins, err
}

// SetGlobal replaces the fixed global response.
func (m *MockFetcher) SetGlobal(doc RawGlobal, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Global, m.GlobalErr = doc, err
}

func (m *MockFetcher) FetchMarkets(ctx context.Context, _ MarketQuery) ([]RawCoin, error) {
	m.mu.Lock()
	m.marketCalls++
	call, fn, coins, err := m.marketCalls, m.MarketsFunc, m.Markets, m.MarketsErr
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, call)
	}
	return coins, err
}

func (m *MockFetcher) FetchGlobal(ctx context.Context) (RawGlobal, error) {
	m.mu.Lock()
	m.globalCalls++
	call, fn, doc, err := m.globalCalls, m.GlobalFunc, m.Global, m.GlobalErr
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, call)
	}
	return doc, err
}

// Calls reports how many market and global fetches were made.
func (m *MockFetcher) Calls() (markets, global int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.marketCalls, m.globalCalls
}
