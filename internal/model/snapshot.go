package model

import "time"

// SyncState is the lifecycle phase of the market-data synchronization.
type SyncState string

const (
	StateIdle       SyncState = "IDLE"
	StateLoading    SyncState = "LOADING"
	StateReady      SyncState = "READY"
	StateRefreshing SyncState = "REFRESHING"
)

// Snapshot is the read view handed to consumers. Coins and Global come from
// independently replaced slots; a Snapshot value itself is never mutated.
type Snapshot struct {
	Coins       []Coin       `json:"coins"`
	Global      *GlobalStats `json:"global,omitempty"`
	LastUpdated time.Time    `json:"last_updated"` // zero until the first market fetch succeeds
	Loading     bool         `json:"loading"`
	State       SyncState    `json:"state"`
}

// FeedStatus reports the health of one polled feed.
type FeedStatus struct {
	Feed                string    `json:"feed"`
	LastSuccess         time.Time `json:"last_success"`
	LastError           string    `json:"last_error,omitempty"`
	LastErrorKind       string    `json:"last_error_kind,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
}

// Point is one plot coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CoinDetail bundles everything a detail view shows for one coin.
type CoinDetail struct {
	Coin        Coin             `json:"coin"`
	Watchlisted bool             `json:"watchlisted"`
	Holding     *PositionSummary `json:"holding,omitempty"`
	Sparkline   []Point          `json:"sparkline"`
	Bars        []float64        `json:"bars"` // percent of the series maximum
}
