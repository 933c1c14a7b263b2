package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"CoinPulse/internal/collector"
	"CoinPulse/internal/model"
	"CoinPulse/internal/recorder"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Feed names used in logs, health and recorder rows.
const (
	FeedMarkets = "markets"
	FeedGlobal  = "global"
)

// DefaultInterval is the refresh period when none is configured.
const DefaultInterval = 30 * time.Second

// Alerter delivers operator alerts about failing feeds.
type Alerter interface {
	Alert(ctx context.Context, text string) error
}

// Options tune a Scheduler. Zero values pick defaults.
type Options struct {
	Interval   time.Duration
	AlertAfter int // consecutive failures before alerting; 0 disables
	Recorder   recorder.Recorder
	Alerter    Alerter
	Now        func() time.Time
}

// Slots are immutable once published; readers load them without locking.
type marketSlot struct {
	seq       uint64
	coins     []model.Coin
	fetchedAt time.Time
}

type globalSlot struct {
	seq   uint64
	stats model.GlobalStats
}

type feedHealth struct {
	seq    uint64
	status model.FeedStatus
}

// Scheduler owns the polling lifecycle of both feeds.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Alerter   Alerter

	interval   time.Duration
	alertAfter int
	now        func() time.Time

	markets   atomic.Pointer[marketSlot]
	global    atomic.Pointer[globalSlot]
	marketSeq atomic.Uint64
	globalSeq atomic.Uint64
	inFlight  atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
	health  map[string]*feedHealth
}

// NewScheduler creates a Scheduler. Fetches run under ctx until Stop.
func NewScheduler(ctx context.Context, col *collector.Collector, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Scheduler{
		Cron:       cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		Collector:  col,
		Recorder:   opts.Recorder,
		Alerter:    opts.Alerter,
		interval:   opts.Interval,
		alertAfter: opts.AlertAfter,
		now:        opts.Now,
		health: map[string]*feedHealth{
			FeedMarkets: {status: model.FeedStatus{Feed: FeedMarkets}},
			FeedGlobal:  {status: model.FeedStatus{Feed: FeedGlobal}},
		},
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s
}

// Start issues the first refresh and registers the recurring one.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.Cron.AddFunc(spec, func() { s.cycle("timer") }); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("register refresh task: %w", err)
	}
	s.started = true
	s.mu.Unlock()

	s.cycle("startup")
	s.Cron.Start()
	log.Printf("[INFO] scheduler started (refresh every %s)", s.interval)
	return nil
}

// Stop cancels the timer, cancels in-flight fetches and waits for them.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	<-s.Cron.Stop().Done()
	s.cancel()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// TriggerRefresh issues a refresh without waiting. The timer is unaffected.
func (s *Scheduler) TriggerRefresh() {
	s.cycle("manual")
}

// RefreshNow issues a refresh and waits until both feeds have completed.
func (s *Scheduler) RefreshNow(ctx context.Context) error {
	done := s.cycle("manual")
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current view. The returned Coins slice is shared with
// the scheduler and must not be modified.
func (s *Scheduler) Snapshot() model.Snapshot {
	m := s.markets.Load()
	g := s.global.Load()
	loading := s.inFlight.Load() > 0

	snap := model.Snapshot{Coins: []model.Coin{}, Loading: loading}
	if m != nil {
		snap.Coins = m.coins
		snap.LastUpdated = m.fetchedAt
	}
	if g != nil {
		stats := g.stats
		snap.Global = &stats
	}
	snap.State = s.state(m != nil || g != nil, loading)
	return snap
}

// State reports the lifecycle phase.
func (s *Scheduler) State() model.SyncState {
	return s.state(s.markets.Load() != nil || s.global.Load() != nil, s.inFlight.Load() > 0)
}

func (s *Scheduler) state(hasData, loading bool) model.SyncState {
	switch {
	case hasData && loading:
		return model.StateRefreshing
	case hasData:
		return model.StateReady
	case s.marketSeq.Load() > 0:
		return model.StateLoading
	default:
		return model.StateIdle
	}
}

// Health reports both feeds, markets first.
func (s *Scheduler) Health() []model.FeedStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []model.FeedStatus{s.health[FeedMarkets].status, s.health[FeedGlobal].status}
}

// cycle launches one fetch per feed and returns a channel closed when both
// have finished. After Stop it does nothing.
func (s *Scheduler) cycle(trigger string) <-chan struct{} {
	done := make(chan struct{})
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		close(done)
		return done
	}
	s.wg.Add(2)
	s.mu.Unlock()

	id := uuid.NewString()
	mseq := s.marketSeq.Add(1)
	gseq := s.globalSeq.Add(1)
	s.inFlight.Add(2)
	log.Printf("[INFO] refresh %s started (%s)", short(id), trigger)

	var feeds sync.WaitGroup
	feeds.Add(2)
	go func() {
		defer s.wg.Done()
		defer feeds.Done()
		alert := s.syncMarkets(id, mseq)
		s.inFlight.Add(-1)
		s.sendAlert(alert)
	}()
	go func() {
		defer s.wg.Done()
		defer feeds.Done()
		alert := s.syncGlobal(id, gseq)
		s.inFlight.Add(-1)
		s.sendAlert(alert)
	}()
	go func() {
		feeds.Wait()
		close(done)
	}()
	return done
}

func (s *Scheduler) syncMarkets(cycleID string, seq uint64) string {
	coins, err := s.Collector.CollectMarkets(s.ctx)
	if err != nil {
		return s.fail(FeedMarkets, cycleID, seq, err)
	}
	at := s.now()
	slot := &marketSlot{seq: seq, coins: coins, fetchedAt: at}
	for {
		old := s.markets.Load()
		if old != nil && old.seq >= seq {
			log.Printf("[WARN] refresh %s: discarding stale markets result", short(cycleID))
			return ""
		}
		if s.markets.CompareAndSwap(old, slot) {
			break
		}
	}
	log.Printf("[INFO] refresh %s: %d coins updated", short(cycleID), len(coins))
	if err := s.Recorder.RecordMarkets(&recorder.MarketRecord{CycleID: cycleID, At: at, Coins: coins}); err != nil {
		log.Printf("[ERROR] record markets: %v", err)
	}
	return s.succeed(FeedMarkets, seq, at)
}

func (s *Scheduler) syncGlobal(cycleID string, seq uint64) string {
	stats, err := s.Collector.CollectGlobal(s.ctx)
	if err != nil {
		return s.fail(FeedGlobal, cycleID, seq, err)
	}
	at := s.now()
	slot := &globalSlot{seq: seq, stats: *stats}
	for {
		old := s.global.Load()
		if old != nil && old.seq >= seq {
			log.Printf("[WARN] refresh %s: discarding stale global result", short(cycleID))
			return ""
		}
		if s.global.CompareAndSwap(old, slot) {
			break
		}
	}
	if err := s.Recorder.RecordGlobal(&recorder.GlobalRecord{CycleID: cycleID, At: at, Stats: stats}); err != nil {
		log.Printf("[ERROR] record global: %v", err)
	}
	return s.succeed(FeedGlobal, seq, at)
}

// fail logs and records a failed fetch; the slot keeps its previous value.
// It returns an alert text when the failure streak reaches the threshold.
func (s *Scheduler) fail(feed, cycleID string, seq uint64, err error) string {
	kind := collector.Classify(err)
	log.Printf("[ERROR] refresh %s: %s feed failed (%s): %v", short(cycleID), feed, kind, err)
	if rerr := s.Recorder.RecordFailure(&recorder.FailureRecord{
		CycleID: cycleID, At: s.now(), Feed: feed, Kind: kind, Error: err.Error(),
	}); rerr != nil {
		log.Printf("[ERROR] record failure: %v", rerr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.health[feed]
	if seq < h.seq {
		return ""
	}
	h.seq = seq
	h.status.ConsecutiveFailures++
	h.status.LastError = err.Error()
	h.status.LastErrorKind = kind
	if s.alertAfter > 0 && h.status.ConsecutiveFailures == s.alertAfter {
		return fmt.Sprintf("⚠️ %s feed failing: %d consecutive failures\nlast error (%s): %v",
			feed, h.status.ConsecutiveFailures, kind, err)
	}
	return ""
}

func (s *Scheduler) succeed(feed string, seq uint64, at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.health[feed]
	// The slot accepted the data, so the success counts even when a newer
	// attempt has already failed. Only a newer outcome ends the streak.
	if at.After(h.status.LastSuccess) {
		h.status.LastSuccess = at
	}
	if seq < h.seq {
		return ""
	}
	h.seq = seq
	failures := h.status.ConsecutiveFailures
	h.status.ConsecutiveFailures = 0
	if s.alertAfter > 0 && failures >= s.alertAfter {
		return fmt.Sprintf("✅ %s feed recovered after %d failures", feed, failures)
	}
	return ""
}

func (s *Scheduler) sendAlert(text string) {
	if text == "" || s.Alerter == nil {
		return
	}
	if err := s.Alerter.Alert(s.ctx, text); err != nil {
		log.Printf("[ERROR] send alert: %v", err)
	}
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
