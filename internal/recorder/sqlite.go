package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists fetch history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Enable WAL mode for concurrent readers
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS coin_ticks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id    TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			coin_id     TEXT NOT NULL,
			symbol      TEXT,
			price       REAL,
			change_24h  REAL,
			market_cap  REAL,
			volume      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_coin_ts ON coin_ticks(coin_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS global_stats (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id         TEXT NOT NULL,
			timestamp        INTEGER NOT NULL,
			total_market_cap REAL,
			volume_24h       REAL,
			btc_dominance    REAL,
			eth_dominance    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_global_ts ON global_stats(timestamp)`,

		`CREATE TABLE IF NOT EXISTS fetch_failures (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id   TEXT NOT NULL,
			timestamp  INTEGER NOT NULL,
			feed       TEXT,
			kind       TEXT,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON fetch_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordMarkets(rec *MarketRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO coin_ticks
		(cycle_id, timestamp, coin_id, symbol, price, change_24h, market_cap, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	ts := rec.At.Unix()
	for _, c := range rec.Coins {
		if _, err := stmt.Exec(rec.CycleID, ts, c.ID, c.Symbol, c.Price, c.Change24h, c.MarketCap, c.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert tick %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordGlobal(rec *GlobalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := rec.Stats
	_, err := r.db.Exec(`INSERT INTO global_stats
		(cycle_id, timestamp, total_market_cap, volume_24h, btc_dominance, eth_dominance)
		VALUES (?,?,?,?,?,?)`,
		rec.CycleID, rec.At.Unix(), g.TotalMarketCap, g.Volume24h, g.BTCDominance, g.ETHDominance,
	)
	return err
}

func (r *SQLiteRecorder) RecordFailure(rec *FailureRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_failures
		(cycle_id, timestamp, feed, kind, error)
		VALUES (?,?,?,?,?)`,
		rec.CycleID, rec.At.Unix(), rec.Feed, rec.Kind, rec.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
