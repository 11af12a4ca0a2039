// Package persistence provides SQLite-based storage for market state
// snapshots.
package persistence

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/starlane/internal/market"
)

// DB wraps a SQLite connection for snapshot persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS markets (
		location_id TEXT NOT NULL,
		commodity_id TEXT NOT NULL,
		price REAL NOT NULL,
		quantity REAL NOT NULL,
		market_pressure REAL NOT NULL,
		last_interaction INTEGER NOT NULL,
		price_lock_end INTEGER NOT NULL,
		depletion_day INTEGER NOT NULL,
		is_depleted INTEGER NOT NULL,
		depletion_bonus_day INTEGER NOT NULL,
		hover_until INTEGER NOT NULL,
		rival_active INTEGER NOT NULL,
		rival_end INTEGER NOT NULL,
		PRIMARY KEY (location_id, commodity_id)
	);

	CREATE TABLE IF NOT EXISTS price_history (
		location_id TEXT NOT NULL,
		commodity_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		price REAL NOT NULL,
		PRIMARY KEY (location_id, commodity_id, day)
	);

	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		day INTEGER NOT NULL,
		location_id TEXT NOT NULL,
		commodity_id TEXT NOT NULL,
		quantity REAL NOT NULL,
		side TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS market_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_seq ON trades(seq);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type marketRow struct {
	LocationID        string  `db:"location_id"`
	CommodityID       string  `db:"commodity_id"`
	Price             float64 `db:"price"`
	Quantity          float64 `db:"quantity"`
	MarketPressure    float64 `db:"market_pressure"`
	LastInteraction   int     `db:"last_interaction"`
	PriceLockEnd      int     `db:"price_lock_end"`
	DepletionDay      int     `db:"depletion_day"`
	IsDepleted        int     `db:"is_depleted"`
	DepletionBonusDay int     `db:"depletion_bonus_day"`
	HoverUntil        int     `db:"hover_until"`
	RivalActive       int     `db:"rival_active"`
	RivalEnd          int     `db:"rival_end"`
}

type historyRow struct {
	LocationID  string  `db:"location_id"`
	CommodityID string  `db:"commodity_id"`
	Day         int     `db:"day"`
	Price       float64 `db:"price"`
}

type tradeRow struct {
	ID          string  `db:"id"`
	Seq         int     `db:"seq"`
	Day         int     `db:"day"`
	LocationID  string  `db:"location_id"`
	CommodityID string  `db:"commodity_id"`
	Quantity    float64 `db:"quantity"`
	Side        string  `db:"side"`
}

// SaveSnapshot performs a full-replace write of an engine snapshot.
func (db *DB) SaveSnapshot(s market.Snapshot) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"markets", "price_history", "trades"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	stmt, err := tx.Preparex(`INSERT INTO markets
		(location_id, commodity_id, price, quantity, market_pressure,
		 last_interaction, price_lock_end, depletion_day, is_depleted,
		 depletion_bonus_day, hover_until, rival_active, rival_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for locID, byCommodity := range s.Inventory {
		for commID, rec := range byCommodity {
			_, err := stmt.Exec(
				locID, commID, s.Prices[locID][commID],
				rec.Quantity, rec.MarketPressure,
				rec.LastPlayerInteraction, rec.PriceLockEndDay,
				rec.DepletionDay, boolToInt(rec.IsDepleted), rec.DepletionBonusDay,
				rec.HoverUntilDay, boolToInt(rec.RivalArbitrageActive), rec.RivalArbitrageEndDay,
			)
			if err != nil {
				return fmt.Errorf("insert market %s/%s: %w", locID, commID, err)
			}
		}
	}

	histStmt, err := tx.Preparex(
		"INSERT INTO price_history (location_id, commodity_id, day, price) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer histStmt.Close()

	for locID, byCommodity := range s.History {
		for commID, series := range byCommodity {
			for _, pt := range series {
				if _, err := histStmt.Exec(locID, commID, pt.Day, pt.Price); err != nil {
					return fmt.Errorf("insert history %s/%s: %w", locID, commID, err)
				}
			}
		}
	}

	tradeStmt, err := tx.Preparex(`INSERT INTO trades
		(id, seq, day, location_id, commodity_id, quantity, side)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tradeStmt.Close()

	for i, t := range s.Ledger {
		_, err := tradeStmt.Exec(t.ID, i, t.Day, t.LocationID, t.CommodityID, t.Quantity, string(t.Side))
		if err != nil {
			return fmt.Errorf("insert trade %s: %w", t.ID, err)
		}
	}

	meta := map[string]string{
		"day":                 fmt.Sprintf("%d", s.Day),
		"revealed_tier":       fmt.Sprintf("%d", s.RevealedTier),
		"system_state":        s.SystemStateID,
		"system_state_expiry": fmt.Sprintf("%d", s.SystemStateExpiry),
	}
	for k, v := range meta {
		_, err := tx.Exec(
			"INSERT INTO market_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			k, v)
		if err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Debug("snapshot saved", "day", s.Day, "trades", len(s.Ledger))
	return nil
}

// LoadSnapshot reads the stored snapshot back.
func (db *DB) LoadSnapshot() (market.Snapshot, error) {
	s := market.Snapshot{
		Prices:    make(map[string]map[string]float64),
		Inventory: make(map[string]map[string]market.InventoryRecord),
		History:   make(map[string]map[string][]market.PricePoint),
	}

	var rows []marketRow
	if err := db.conn.Select(&rows, "SELECT * FROM markets"); err != nil {
		return s, fmt.Errorf("load markets: %w", err)
	}
	for _, r := range rows {
		if s.Prices[r.LocationID] == nil {
			s.Prices[r.LocationID] = make(map[string]float64)
			s.Inventory[r.LocationID] = make(map[string]market.InventoryRecord)
		}
		s.Prices[r.LocationID][r.CommodityID] = r.Price
		s.Inventory[r.LocationID][r.CommodityID] = market.InventoryRecord{
			Quantity:              r.Quantity,
			MarketPressure:        r.MarketPressure,
			LastPlayerInteraction: r.LastInteraction,
			PriceLockEndDay:       r.PriceLockEnd,
			DepletionDay:          r.DepletionDay,
			IsDepleted:            r.IsDepleted != 0,
			DepletionBonusDay:     r.DepletionBonusDay,
			HoverUntilDay:         r.HoverUntil,
			RivalArbitrageActive:  r.RivalActive != 0,
			RivalArbitrageEndDay:  r.RivalEnd,
		}
	}

	var histRows []historyRow
	err := db.conn.Select(&histRows,
		"SELECT location_id, commodity_id, day, price FROM price_history ORDER BY location_id, commodity_id, day")
	if err != nil {
		return s, fmt.Errorf("load history: %w", err)
	}
	for _, r := range histRows {
		if s.History[r.LocationID] == nil {
			s.History[r.LocationID] = make(map[string][]market.PricePoint)
		}
		s.History[r.LocationID][r.CommodityID] = append(
			s.History[r.LocationID][r.CommodityID],
			market.PricePoint{Day: r.Day, Price: r.Price},
		)
	}

	var tradeRows []tradeRow
	err = db.conn.Select(&tradeRows,
		"SELECT id, seq, day, location_id, commodity_id, quantity, side FROM trades ORDER BY seq")
	if err != nil {
		return s, fmt.Errorf("load trades: %w", err)
	}
	for _, r := range tradeRows {
		s.Ledger = append(s.Ledger, market.TradeRecord{
			ID:          r.ID,
			Day:         r.Day,
			LocationID:  r.LocationID,
			CommodityID: r.CommodityID,
			Quantity:    r.Quantity,
			Side:        market.TradeSide(r.Side),
		})
	}

	s.Day = db.metaInt("day")
	s.RevealedTier = db.metaInt("revealed_tier")
	s.SystemStateID, _ = db.GetMeta("system_state")
	s.SystemStateExpiry = db.metaInt("system_state_expiry")

	return s, nil
}

// HasSnapshot reports whether a prior save exists.
func (db *DB) HasSnapshot() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM markets"); err != nil {
		return false
	}
	return count > 0
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM market_meta WHERE key = ?", key)
	return value, err
}

func (db *DB) metaInt(key string) int {
	v, err := db.GetMeta(key)
	if err != nil {
		return 0
	}
	var n int
	fmt.Sscanf(v, "%d", &n)
	return n
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
