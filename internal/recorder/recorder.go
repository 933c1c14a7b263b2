package recorder

import (
	"time"

	"CoinPulse/internal/model"
)

// MarketRecord is one accepted market slot.
type MarketRecord struct {
	CycleID string
	At      time.Time
	Coins   []model.Coin
}

// GlobalRecord is one accepted global slot.
type GlobalRecord struct {
	CycleID string
	At      time.Time
	Stats   *model.GlobalStats
}

// FailureRecord is one failed feed fetch.
type FailureRecord struct {
	CycleID string
	At      time.Time
	Feed    string // "markets" or "global"
	Kind    string // "network", "malformed" or "unknown"
	Error   string
}

// Recorder appends fetch history for offline analysis. Nothing is read back
// into the engine.
type Recorder interface {
	RecordMarkets(rec *MarketRecord) error
	RecordGlobal(rec *GlobalRecord) error
	RecordFailure(rec *FailureRecord) error
	Close() error
}
